package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/member"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/aggregates/position"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/church"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/familygroup"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/ministry"
	"github.com/ekklesia-dev/ekklesia-sdk/modules/membership/domain/entities/zone"
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

type memChurchRepo struct {
	churches map[uuid.UUID]church.Church
}

func newMemChurchRepo() *memChurchRepo {
	return &memChurchRepo{churches: map[uuid.UUID]church.Church{}}
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

func newMemZoneRepo() *memZoneRepo {
	return &memZoneRepo{zones: map[uuid.UUID]zone.Zone{}}
}

func (r *memZoneRepo) GetByID(ctx context.Context, id uuid.UUID) (zone.Zone, error) {
	z, ok := r.zones[id]
	if !ok {
		return zone.Zone{}, zone.ErrNotFound
	}
	return z, nil
}

func (r *memZoneRepo) GetBySupervisor(ctx context.Context, supervisorPositionID uuid.UUID) ([]zone.Zone, error) {
	var out []zone.Zone
	for _, z := range r.zones {
		if z.SupervisorPositionID().Valid && z.SupervisorPositionID().UUID == supervisorPositionID {
			out = append(out, z)
		}
	}
	return out, nil
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

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{groups: map[uuid.UUID]familygroup.FamilyGroup{}}
}

func (r *memGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (familygroup.FamilyGroup, error) {
	g, ok := r.groups[id]
	if !ok {
		return familygroup.FamilyGroup{}, familygroup.ErrNotFound
	}
	return g, nil
}

func (r *memGroupRepo) GetByPreacher(ctx context.Context, preacherPositionID uuid.UUID) ([]familygroup.FamilyGroup, error) {
	var out []familygroup.FamilyGroup
	for _, g := range r.groups {
		if g.PreacherPositionID().Valid && g.PreacherPositionID().UUID == preacherPositionID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memGroupRepo) Create(ctx context.Context, g familygroup.FamilyGroup) (familygroup.FamilyGroup, error) {
	r.groups[g.ID()] = g
	return g, nil
}

func (r *memGroupRepo) Save(ctx context.Context, g familygroup.FamilyGroup) (familygroup.FamilyGroup, error) {
	r.groups[g.ID()] = g
	return g, nil
}

type memMinistryRepo struct {
	ministries map[uuid.UUID]ministry.Ministry
}

func newMemMinistryRepo() *memMinistryRepo {
	return &memMinistryRepo{ministries: map[uuid.UUID]ministry.Ministry{}}
}

func (r *memMinistryRepo) GetByID(ctx context.Context, id uuid.UUID) (ministry.Ministry, error) {
	m, ok := r.ministries[id]
	if !ok {
		return ministry.Ministry{}, ministry.ErrNotFound
	}
	return m, nil
}

func (r *memMinistryRepo) Create(ctx context.Context, m ministry.Ministry) (ministry.Ministry, error) {
	r.ministries[m.ID()] = m
	return m, nil
}

type memPositionRepo struct {
	positions map[uuid.UUID]position.Position
	createErr error
	deleteErr error
}

func newMemPositionRepo() *memPositionRepo {
	return &memPositionRepo{positions: map[uuid.UUID]position.Position{}}
}

func (r *memPositionRepo) GetByID(ctx context.Context, id uuid.UUID) (position.Position, error) {
	p, ok := r.positions[id]
	if !ok {
		return position.Position{}, position.ErrNotFound
	}
	return p, nil
}

func (r *memPositionRepo) GetByMemberID(ctx context.Context, memberID uuid.UUID) (position.Position, error) {
	for _, p := range r.positions {
		if p.MemberID() == memberID && p.IsActive() {
			return p, nil
		}
	}
	return position.Position{}, position.ErrNotFound
}

func (r *memPositionRepo) GetPaginated(ctx context.Context, params *position.FindParams) ([]position.Position, int64, error) {
	var out []position.Position
	for _, p := range r.positions {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memPositionRepo) GetChildren(ctx context.Context, id uuid.UUID) ([]position.Position, error) {
	var out []position.Position
	for _, p := range r.positions {
		if p.ParentID().Valid && p.ParentID().UUID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPositionRepo) CountSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	var n int64
	for _, p := range r.positions {
		if strings.HasPrefix(p.Path(), pathPrefix+"/") {
			n++
		}
	}
	return n, nil
}

func (r *memPositionRepo) Create(ctx context.Context, p position.Position) (position.Position, error) {
	if r.createErr != nil {
		return position.Position{}, r.createErr
	}
	r.positions[p.ID()] = p
	return p, nil
}

func (r *memPositionRepo) Save(ctx context.Context, p position.Position) (position.Position, error) {
	if _, ok := r.positions[p.ID()]; !ok {
		return position.Position{}, position.ErrNotFound
	}
	r.positions[p.ID()] = p
	return p, nil
}

func (r *memPositionRepo) RewriteSubtreePaths(ctx context.Context, oldPrefix, newPrefix string, churchID uuid.UUID) (int64, error) {
	var n int64
	for id, p := range r.positions {
		if strings.HasPrefix(p.Path(), oldPrefix+"/") {
			rewritten := newPrefix + strings.TrimPrefix(p.Path(), oldPrefix)
			r.positions[id] = p.WithPath(rewritten).Reparent(p.ParentID(), churchID)
			n++
		}
	}
	return n, nil
}

func (r *memPositionRepo) DetachChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for pid, p := range r.positions {
		if p.ParentID().Valid && p.ParentID().UUID == id {
			r.positions[pid] = p.Reparent(uuid.NullUUID{}, p.ChurchID())
			n++
		}
	}
	return n, nil
}

func (r *memPositionRepo) RerootSubtree(ctx context.Context, oldPrefix string) (int64, error) {
	var n int64
	for id, p := range r.positions {
		if strings.HasPrefix(p.Path(), oldPrefix+"/") {
			r.positions[id] = p.WithPath(strings.TrimPrefix(p.Path(), oldPrefix+"/"))
			n++
		}
	}
	return n, nil
}

func (r *memPositionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.positions[id]; !ok {
		return position.ErrNotFound
	}
	delete(r.positions, id)
	return nil
}

type memMemberRepo struct {
	members map[uuid.UUID]member.Member
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{members: map[uuid.UUID]member.Member{}}
}

func (r *memMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (member.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}

func (r *memMemberRepo) GetPaginated(ctx context.Context, params *member.FindParams) ([]member.Member, int64, error) {
	var out []member.Member
	for _, m := range r.members {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *memMemberRepo) Create(ctx context.Context, m member.Member) (member.Member, error) {
	r.members[m.ID()] = m
	return m, nil
}

func (r *memMemberRepo) Save(ctx context.Context, m member.Member) (member.Member, error) {
	if _, ok := r.members[m.ID()]; !ok {
		return member.Member{}, member.ErrNotFound
	}
	r.members[m.ID()] = m
	return m, nil
}

func (r *memMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.members, id)
	return nil
}

type memMembershipRepo struct {
	memberships map[uuid.UUID]ministry.Membership
}

func newMemMembershipRepo() *memMembershipRepo {
	return &memMembershipRepo{memberships: map[uuid.UUID]ministry.Membership{}}
}

func (r *memMembershipRepo) GetByMemberAndMinistry(ctx context.Context, memberID, ministryID uuid.UUID) (ministry.Membership, error) {
	for _, m := range r.memberships {
		if m.MemberID() == memberID && m.MinistryID() == ministryID {
			return m, nil
		}
	}
	return ministry.Membership{}, ministry.ErrMembershipNotFound
}

func (r *memMembershipRepo) GetByMember(ctx context.Context, memberID uuid.UUID) ([]ministry.Membership, error) {
	var out []ministry.Membership
	for _, m := range r.memberships {
		if m.MemberID() == memberID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMembershipRepo) Create(ctx context.Context, m ministry.Membership) (ministry.Membership, error) {
	r.memberships[m.ID()] = m
	return m, nil
}

func (r *memMembershipRepo) Save(ctx context.Context, m ministry.Membership) (ministry.Membership, error) {
	r.memberships[m.ID()] = m
	return m, nil
}

func (r *memMembershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.memberships, id)
	return nil
}

type stubLedgerRepointer struct {
	oldID      uuid.UUID
	newID      uuid.UUID
	memberType string
	moved      int64
	err        error
}

func (s *stubLedgerRepointer) RepointOwner(ctx context.Context, oldPositionID, newPositionID uuid.UUID, memberType string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.oldID = oldPositionID
	s.newID = newPositionID
	s.memberType = memberType
	return s.moved, nil
}
