package registry

import (
	"time"

	consulapi "github.com/hashicorp/consul/api"
)

// ServiceRegistry announces listeners to service discovery and withdraws them.
type ServiceRegistry interface {
	Register(inst Instance) error
	Deregister(id string) error
}

// Instance is one listener announced to the registry.
type Instance struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	Check   *consulapi.AgentServiceCheck
}

// CheckTiming is how often Consul polls an instance and how long a failing
// one stays listed.
type CheckTiming struct {
	Interval        time.Duration
	Timeout         time.Duration
	DeregisterAfter time.Duration
}

var DefaultCheckTiming = CheckTiming{
	Interval:        10 * time.Second,
	Timeout:         time.Second,
	DeregisterAfter: time.Minute,
}

// RegisterAll registers every instance and returns the ids that succeeded, so the
// caller can deregister exactly those on shutdown. It stops at the first failure.
func RegisterAll(r ServiceRegistry, instances []Instance) ([]string, error) {
	registered := make([]string, 0, len(instances))
	for _, inst := range instances {
		if err := r.Register(inst); err != nil {
			return registered, err
		}
		registered = append(registered, inst.ID)
	}
	return registered, nil
}

// DeregisterAll removes every id, continuing past failures. The first error is returned.
func DeregisterAll(r ServiceRegistry, ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := r.Deregister(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
