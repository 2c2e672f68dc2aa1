package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Get(ctx context.Context, uri string) (int, []byte, error) {
	args := m.Called(ctx, uri)
	var body []byte
	if b, ok := args.Get(1).([]byte); ok {
		body = b
	}
	return args.Int(0), body, args.Error(2)
}
