package registry

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type consulRegistry struct {
	agent  *consulapi.Agent
	logger *zap.Logger
}

var _ ServiceRegistry = (*consulRegistry)(nil)

// NewConsulRegistry talks to the local Consul agent at address. The agent is
// contacted once up front so a wrong address fails startup.
func NewConsulRegistry(address string, logger *zap.Logger) (ServiceRegistry, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = address

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client for %s: %w", address, err)
	}
	agent := client.Agent()
	node, err := agent.NodeName()
	if err != nil {
		return nil, fmt.Errorf("reach consul agent at %s: %w", address, err)
	}

	logger = logger.Named("consul")
	logger.Info("Consul agent reachable", zap.String("address", address), zap.String("node", node))
	return &consulRegistry{agent: agent, logger: logger}, nil
}

func (r *consulRegistry) Register(inst Instance) error {
	reg := &consulapi.AgentServiceRegistration{
		ID:      inst.ID,
		Name:    inst.Name,
		Tags:    inst.Tags,
		Address: inst.Address,
		Port:    inst.Port,
		Check:   inst.Check,
	}
	if inst.Check != nil {
		reg.Meta = map[string]string{"protocol": protocolOf(inst.Check)}
	}

	fields := []zap.Field{
		zap.String("service_id", inst.ID),
		zap.String("service_name", inst.Name),
		zap.String("endpoint", net.JoinHostPort(inst.Address, strconv.Itoa(inst.Port))),
	}
	if err := r.agent.ServiceRegister(reg); err != nil {
		r.logger.Error("Consul rejected service", append(fields, zap.Error(err))...)
		return fmt.Errorf("register %s with consul: %w", inst.ID, err)
	}
	r.logger.Info("Service announced to Consul", fields...)
	return nil
}

func (r *consulRegistry) Deregister(id string) error {
	if err := r.agent.ServiceDeregister(id); err != nil {
		r.logger.Warn("Consul kept service", zap.String("service_id", id), zap.Error(err))
		return fmt.Errorf("deregister %s from consul: %w", id, err)
	}
	r.logger.Info("Service withdrawn from Consul", zap.String("service_id", id))
	return nil
}

func protocolOf(check *consulapi.AgentServiceCheck) string {
	if check.GRPC != "" {
		return "grpc"
	}
	return "http"
}

// HTTPCheck polls url with GET; any 2xx counts as passing.
func HTTPCheck(serviceID, url string, timing CheckTiming) *consulapi.AgentServiceCheck {
	check := timing.check(serviceID, "http")
	check.HTTP = url
	check.Method = http.MethodGet
	return check
}

// GRPCCheck calls grpc.health.v1.Health/Check on target.
func GRPCCheck(serviceID, target string, useTLS bool, timing CheckTiming) *consulapi.AgentServiceCheck {
	check := timing.check(serviceID, "grpc")
	check.GRPC = target
	check.GRPCUseTLS = useTLS
	return check
}

func (t CheckTiming) check(serviceID, protocol string) *consulapi.AgentServiceCheck {
	return &consulapi.AgentServiceCheck{
		CheckID:                        serviceID + ":" + protocol,
		Name:                           protocol + " health of " + serviceID,
		Interval:                       t.Interval.String(),
		Timeout:                        t.Timeout.String(),
		DeregisterCriticalServiceAfter: t.DeregisterAfter.String(),
	}
}
