package services

import (
	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cdt_management_app/internal/core/ports/services"
)

// NewServiceContainer wires the repositories and cache into the service layer.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cache portsrepo.Cache, ttls CacheTTLs) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		CDT:  NewCDTService(repos.CDTRepo, repos.AuditRepo, cache, ttls),
		User: NewUserService(repos.UserRepo),
	}
}
