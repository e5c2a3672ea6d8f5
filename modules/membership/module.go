package membership

import (
	"context"
	"embed"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/infrastructure/persistence"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/services"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

// NewModule wires the hierarchy registry. The ledger repointer comes
// from the offerings module; pass nil when offerings is not loaded.
func NewModule(ledger services.LedgerRepointer) application.Module {
	if ledger == nil {
		ledger = noopLedger{}
	}
	return &Module{ledger: ledger}
}

type Module struct {
	ledger services.LedgerRepointer
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	positions := persistence.NewPositionRepository()
	members := persistence.NewMemberRepository()
	memberships := persistence.NewMinistryMembershipRepository()
	churches := persistence.NewChurchRepository()

	validator := services.NewHierarchyValidator(positions, persistence.NewMinistryRepository(), churches)
	promotions := services.NewPromotionService(
		positions, members, memberships,
		persistence.NewZoneRepository(), persistence.NewFamilyGroupRepository(),
		validator, m.ledger, app.EventPublisher(),
	)
	cascades := services.NewCascadeService(positions, validator, app.EventPublisher())

	app.RegisterServices(
		services.NewPositionService(
			positions, members, memberships, validator, promotions, cascades, app.EventPublisher(),
		),
		promotions,
		cascades,
	)
	return nil
}

func (m *Module) Name() string {
	return "membership"
}

type noopLedger struct{}

func (noopLedger) RepointOwner(ctx context.Context, oldPositionID, newPositionID uuid.UUID, memberType string) (int64, error) {
	return 0, nil
}
