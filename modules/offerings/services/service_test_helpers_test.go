package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/church"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/familygroup"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/zone"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/entities/donor"
)

type stubPublisher struct {
	events []string
}

func (s *stubPublisher) Publish(args ...interface{}) {
	if len(args) > 0 {
		if topic, ok := args[0].(string); ok {
			s.events = append(s.events, topic)
		}
	}
}
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          {}
func (s *stubPublisher) SubscribersCount() int           { return 0 }

type memOfferingRepo struct {
	entries    map[uuid.UUID]offering.Offering
	lockedKeys []string
}

func newMemOfferingRepo() *memOfferingRepo {
	return &memOfferingRepo{entries: map[uuid.UUID]offering.Offering{}}
}

func (r *memOfferingRepo) GetByID(ctx context.Context, id uuid.UUID) (offering.Offering, error) {
	o, ok := r.entries[id]
	if !ok {
		return offering.Offering{}, offering.ErrNotFound
	}
	return o, nil
}

func (r *memOfferingRepo) GetByReceiptCode(ctx context.Context, code string) (offering.Offering, error) {
	for _, o := range r.entries {
		if o.ReceiptCode() == code {
			return o, nil
		}
	}
	return offering.Offering{}, offering.ErrNotFound
}

func (r *memOfferingRepo) GetPaginated(ctx context.Context, params *offering.FindParams) ([]offering.Offering, int64, error) {
	var out []offering.Offering
	for _, o := range r.entries {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *memOfferingRepo) FindActiveDuplicate(ctx context.Context, probe offering.Offering) (offering.Offering, error) {
	key := probe.UniquenessKey()
	for _, o := range r.entries {
		if o.IsActive() && o.ID() != probe.ID() && o.UniquenessKey() == key {
			return o, nil
		}
	}
	return offering.Offering{}, offering.ErrNotFound
}

func (r *memOfferingRepo) FindReconciliationTarget(ctx context.Context, source offering.Offering, target offering.Currency) (offering.Offering, error) {
	probe, err := source.Apply(offering.Update{Currency: &target})
	if err != nil {
		return offering.Offering{}, err
	}
	key := probe.UniquenessKey()
	for _, o := range r.entries {
		if o.IsActive() && o.ID() != source.ID() && o.UniquenessKey() == key {
			return o, nil
		}
	}
	return offering.Offering{}, offering.ErrNotFound
}

func (r *memOfferingRepo) LockUniquenessKey(ctx context.Context, key string) error {
	r.lockedKeys = append(r.lockedKeys, key)
	return nil
}

func (r *memOfferingRepo) Create(ctx context.Context, o offering.Offering) (offering.Offering, error) {
	if _, err := r.FindActiveDuplicate(ctx, o); err == nil {
		return offering.Offering{}, offering.DuplicateError(o)
	}
	r.entries[o.ID()] = o
	return o, nil
}

func (r *memOfferingRepo) Save(ctx context.Context, o offering.Offering) (offering.Offering, error) {
	if _, ok := r.entries[o.ID()]; !ok {
		return offering.Offering{}, offering.ErrNotFound
	}
	r.entries[o.ID()] = o
	return o, nil
}

func (r *memOfferingRepo) RepointOwner(ctx context.Context, oldPositionID, newPositionID uuid.UUID, memberType string) (int64, error) {
	var n int64
	for id, o := range r.entries {
		d := o.Dimension()
		if d.PositionID.Valid && d.PositionID.UUID == oldPositionID {
			r.entries[id] = o.Repoint(newPositionID, memberType)
			n++
		}
	}
	return n, nil
}

type stubSequencer struct {
	counters map[offering.Prefix]int64
}

func newStubSequencer() *stubSequencer {
	return &stubSequencer{counters: map[offering.Prefix]int64{}}
}

func (s *stubSequencer) Next(ctx context.Context, prefix offering.Prefix) (int64, error) {
	s.counters[prefix]++
	return s.counters[prefix], nil
}

type stubRenderer struct {
	renders int
}

func (s *stubRenderer) Render(o offering.Offering) ([]byte, error) {
	s.renders++
	return []byte("receipt " + o.ReceiptCode()), nil
}

type stubDocStore struct {
	puts    []string
	deletes []string
}

func (s *stubDocStore) Put(ctx context.Context, receiptCode string, revision int, body []byte) (string, error) {
	key := fmt.Sprintf("receipts/%s/%d.txt", receiptCode, revision)
	s.puts = append(s.puts, key)
	return key, nil
}

func (s *stubDocStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

type memChurchRepo struct {
	churches map[uuid.UUID]church.Church
}

func (r *memChurchRepo) GetByID(ctx context.Context, id uuid.UUID) (church.Church, error) {
	c, ok := r.churches[id]
	if !ok {
		return church.Church{}, church.ErrNotFound
	}
	return c, nil
}

func (r *memChurchRepo) Create(ctx context.Context, c church.Church) (church.Church, error) {
	r.churches[c.ID()] = c
	return c, nil
}

type memZoneRepo struct {
	zones map[uuid.UUID]zone.Zone
}

func (r *memZoneRepo) GetByID(ctx context.Context, id uuid.UUID) (zone.Zone, error) {
	z, ok := r.zones[id]
	if !ok {
		return zone.Zone{}, zone.ErrNotFound
	}
	return z, nil
}

func (r *memZoneRepo) GetBySupervisor(ctx context.Context, supervisorPositionID uuid.UUID) ([]zone.Zone, error) {
	return nil, nil
}

func (r *memZoneRepo) Create(ctx context.Context, z zone.Zone) (zone.Zone, error) {
	r.zones[z.ID()] = z
	return z, nil
}

func (r *memZoneRepo) Save(ctx context.Context, z zone.Zone) (zone.Zone, error) {
	r.zones[z.ID()] = z
	return z, nil
}

type memGroupRepo struct {
	groups map[uuid.UUID]familygroup.FamilyGroup
}

func (r *memGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (familygroup.FamilyGroup, error) {
	g, ok := r.groups[id]
	if !ok {
		return familygroup.FamilyGroup{}, familygroup.ErrNotFound
	}
	return g, nil
}

func (r *memGroupRepo) GetByPreacher(ctx context.Context, preacherPositionID uuid.UUID) ([]familygroup.FamilyGroup, error) {
	return nil, nil
}

func (r *memGroupRepo) Create(ctx context.Context, g familygroup.FamilyGroup) (familygroup.FamilyGroup, error) {
	r.groups[g.ID()] = g
	return g, nil
}

func (r *memGroupRepo) Save(ctx context.Context, g familygroup.FamilyGroup) (familygroup.FamilyGroup, error) {
	r.groups[g.ID()] = g
	return g, nil
}

type memPositionRepo struct {
	positions map[uuid.UUID]position.Position
}

func (r *memPositionRepo) GetByID(ctx context.Context, id uuid.UUID) (position.Position, error) {
	p, ok := r.positions[id]
	if !ok {
		return position.Position{}, position.ErrNotFound
	}
	return p, nil
}

func (r *memPositionRepo) GetByMemberID(ctx context.Context, memberID uuid.UUID) (position.Position, error) {
	return position.Position{}, position.ErrNotFound
}

func (r *memPositionRepo) GetPaginated(ctx context.Context, params *position.FindParams) ([]position.Position, int64, error) {
	return nil, 0, nil
}

func (r *memPositionRepo) GetChildren(ctx context.Context, id uuid.UUID) ([]position.Position, error) {
	return nil, nil
}

func (r *memPositionRepo) CountSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	return 0, nil
}

func (r *memPositionRepo) Create(ctx context.Context, p position.Position) (position.Position, error) {
	r.positions[p.ID()] = p
	return p, nil
}

func (r *memPositionRepo) Save(ctx context.Context, p position.Position) (position.Position, error) {
	r.positions[p.ID()] = p
	return p, nil
}

func (r *memPositionRepo) RewriteSubtreePaths(ctx context.Context, oldPrefix, newPrefix string, churchID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memPositionRepo) DetachChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memPositionRepo) RerootSubtree(ctx context.Context, oldPrefix string) (int64, error) {
	return 0, nil
}

func (r *memPositionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.positions, id)
	return nil
}

type memDonorRepo struct {
	donors map[uuid.UUID]donor.ExternalDonor
}

func (r *memDonorRepo) GetByID(ctx context.Context, id uuid.UUID) (donor.ExternalDonor, error) {
	d, ok := r.donors[id]
	if !ok {
		return donor.ExternalDonor{}, donor.ErrNotFound
	}
	return d, nil
}

func (r *memDonorRepo) Create(ctx context.Context, d donor.ExternalDonor) (donor.ExternalDonor, error) {
	r.donors[d.ID()] = d
	return d, nil
}

func (r *memDonorRepo) Save(ctx context.Context, d donor.ExternalDonor) (donor.ExternalDonor, error) {
	r.donors[d.ID()] = d
	return d, nil
}
