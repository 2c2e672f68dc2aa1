package main

import (
	"errors"
	"fmt"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/policyfile"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	policyGuest = "guest"
	policyUser  = "user"
	policyFile  = "file"
)

var errPolicyFileRequired = errors.New("--policy file needs --policy-file")

type policyFlags struct {
	name           string
	file           string
	keepLocation   bool
	keepDevice     bool
	keepPersonal   bool
	removeSoftware bool
}

func (f *policyFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "policy", "", "policy to apply: guest, user or file (default guest)")
	fs.StringVar(&f.file, "policy-file", "", "YAML tag list policy (implies --policy file)")
	fs.BoolVar(&f.keepLocation, "keep-location", false, "user policy: keep location tags")
	fs.BoolVar(&f.keepDevice, "keep-device", false, "user policy: keep device tags")
	fs.BoolVar(&f.keepPersonal, "keep-personal", false, "user policy: keep personal tags")
	fs.BoolVar(&f.removeSoftware, "remove-software", false, "user policy: remove software tags")
}

func (f *policyFlags) build() (policy.Policy, error) {
	name := f.name
	if name == "" && f.file != "" {
		name = policyFile
	}
	switch name {
	case "", policyGuest:
		return policy.NewGuestPolicy(), nil
	case policyUser:
		p := policy.NewUserPolicy(uuid.Nil)
		p.RemoveLocation = !f.keepLocation
		p.RemoveDevice = !f.keepDevice
		p.RemovePersonal = !f.keepPersonal
		p.RemoveSoftware = f.removeSoftware
		return p, nil
	case policyFile:
		if f.file == "" {
			return nil, errPolicyFileRequired
		}
		return policyfile.Load(f.file)
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}
