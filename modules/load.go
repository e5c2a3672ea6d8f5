package modules

import (
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings"
	offpersistence "github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/infrastructure/persistence"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/application"
)

// Load returns the built-in modules in registration order. The offering
// repository doubles as the ledger repointer promotions call into.
func Load() []application.Module {
	return []application.Module{
		membership.NewModule(offpersistence.NewOfferingRepository()),
		offerings.NewModule(),
	}
}
