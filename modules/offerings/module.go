package offerings

import (
	"embed"

	mpersistence "github.com/ekklesia-dev/ekklesia-sdk/modules/membership/infrastructure/persistence"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/infrastructure/documents"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/infrastructure/persistence"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/services"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/application"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	offerings := persistence.NewOfferingRepository()
	sequencer := persistence.NewReceiptSequencer()
	donors := persistence.NewDonorRepository()

	renderer := documents.NewTextReceiptRenderer()
	store := documents.NewS3DocumentStore(configuration.Use().DocumentStore)

	guard := services.NewDuplicateGuard(offerings)
	reconcile := services.NewReconciliationService(offerings, sequencer, renderer, store)

	app.RegisterServices(
		services.NewOfferingService(
			offerings, sequencer, guard, reconcile,
			mpersistence.NewChurchRepository(),
			mpersistence.NewZoneRepository(),
			mpersistence.NewFamilyGroupRepository(),
			mpersistence.NewPositionRepository(),
			donors,
			renderer, store, app.EventPublisher(),
		),
	)
	return nil
}

func (m *Module) Name() string {
	return "offerings"
}
