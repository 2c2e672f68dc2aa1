package server

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/MetaGuard/pkg/config"
	"github.com/NeuralTrust/MetaGuard/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	APIServer struct {
		*BaseServer
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	s := &APIServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}
	s.WithRouters(di.Routers...)
	return s
}

func (s *APIServer) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	return s.serve(ctx, addr)
}
