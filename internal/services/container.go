package services

import (
	"github.com/samber/do"
)

// Provide registers every service. The caller provides the infrastructure they
// depend on: datastore.Store, caching.Cache, interfaces.Locker, *zap.Logger and *Authentication.
func Provide(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ServiceGameMode, error) {
		return NewServiceGameMode(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceLedger, error) {
		return NewServiceLedger(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceAssignment, error) {
		return NewServiceAssignment(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceReward, error) {
		return NewServiceReward(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceClaim, error) {
		return NewServiceClaim(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceUser, error) {
		return NewServiceUser(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceAdmin, error) {
		return NewServiceAdmin(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceConfig, error) {
		return NewServiceConfig(i)
	})
}
