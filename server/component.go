package server

import (
	"context"

	"github.com/huzzdev/sincrolab-backend/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (sc *Component) Name() string { return componentName }

func (sc *Component) Start(ctx context.Context) error { return sc.server.Start(ctx) }

func (sc *Component) Stop(ctx context.Context) error { return sc.server.Stop(ctx) }

// Health reports unhealthy until the listener is bound.
func (sc *Component) Health(context.Context) component.Health {
	if sc.server.Listening() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "not listening",
	}
}
