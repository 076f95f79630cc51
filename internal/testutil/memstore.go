package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	accountstore "github.com/dalemusser/daycarehub/internal/app/store/accounts"
	documentstore "github.com/dalemusser/daycarehub/internal/app/store/documents"
	invitationstore "github.com/dalemusser/daycarehub/internal/app/store/invitations"
	membershipstore "github.com/dalemusser/daycarehub/internal/app/store/memberships"
	organizationstore "github.com/dalemusser/daycarehub/internal/app/store/organizations"
	schoolstore "github.com/dalemusser/daycarehub/internal/app/store/schools"
	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory stand-in for the Mongo stores used by handler and
// job tests. Each accessor (Accounts, Users, ...) returns a view that satisfies
// the narrow interface its consumer declares.
//
// Fail injects errors: when Fail["users.Put"] is set, that call returns it.
type MemStore struct {
	mu sync.Mutex

	accounts      map[string]models.Account
	users         map[string]models.User
	schools       map[string]models.School
	organizations map[string]models.Organization
	members       map[string]models.SchoolMember
	invitations   map[primitive.ObjectID]models.Invitation
	dailyStatus   map[string]models.DailyStatus
	checklists    map[string]models.ChecklistRecord
	documents     map[string]models.Document

	Fail map[string]error

	// Calls records how often each operation ran.
	Calls map[string]int
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		accounts:      map[string]models.Account{},
		users:         map[string]models.User{},
		schools:       map[string]models.School{},
		organizations: map[string]models.Organization{},
		members:       map[string]models.SchoolMember{},
		invitations:   map[primitive.ObjectID]models.Invitation{},
		dailyStatus:   map[string]models.DailyStatus{},
		checklists:    map[string]models.ChecklistRecord{},
		documents:     map[string]models.Document{},
		Fail:          map[string]error{},
		Calls:         map[string]int{},
	}
}

// op records a call and returns any injected failure. Caller holds mu.
func (m *MemStore) op(name string) error {
	m.Calls[name]++
	return m.Fail[name]
}

func keyOf(id any) string {
	return fmt.Sprint(id)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Seeding and inspection                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (m *MemStore) SeedAccount(a models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
}

func (m *MemStore) SeedUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.UID = u.ID
	m.users[u.ID] = u
}

func (m *MemStore) SeedSchool(s models.School) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schools[s.ID] = s
}

func (m *MemStore) SeedOrganization(o models.Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.organizations[o.ID] = o
}

func (m *MemStore) SeedMember(sm models.SchoolMember) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm.ID = models.SchoolMemberID(sm.SchoolID, sm.UID)
	m.members[sm.ID] = sm
}

func (m *MemStore) SeedInvitation(inv models.Invitation) models.Invitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	m.invitations[inv.ID] = inv
	return inv
}

func (m *MemStore) SeedDailyStatus(ds models.DailyStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyStatus[keyOf(ds.ID)] = ds
}

func (m *MemStore) SeedChecklist(rec models.ChecklistRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checklists[keyOf(rec.ID)] = rec
}

func (m *MemStore) SeedDocument(d models.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[d.ID] = d
}

func (m *MemStore) Account(uid string) (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[uid]
	return a, ok
}

// AccountByEmail returns the account registered under email.
func (m *MemStore) AccountByEmail(email string) (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return a, true
		}
	}
	return models.Account{}, false
}

func (m *MemStore) AccountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

func (m *MemStore) User(uid string) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	return u, ok
}

func (m *MemStore) School(id string) (models.School, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schools[id]
	return s, ok
}

func (m *MemStore) Organization(id string) (models.Organization, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.organizations[id]
	return o, ok
}

func (m *MemStore) Member(schoolID, uid string) (models.SchoolMember, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm, ok := m.members[models.SchoolMemberID(schoolID, uid)]
	return sm, ok
}

func (m *MemStore) Invitation(id primitive.ObjectID) (models.Invitation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invitations[id]
	return inv, ok
}

// AllInvitations returns every invitation, oldest first.
func (m *MemStore) AllInvitations() []models.Invitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Invitation, 0, len(m.invitations))
	for _, inv := range m.invitations {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (m *MemStore) DailyStatusCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dailyStatus)
}

func (m *MemStore) HasDailyStatus(id any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.dailyStatus[keyOf(id)]
	return ok
}

func (m *MemStore) Checklist(id any) (models.ChecklistRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.checklists[keyOf(id)]
	return rec, ok
}

/*─────────────────────────────────────────────────────────────────────────────*
| Accounts                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// MemAccounts mirrors accountstore.Store.
type MemAccounts struct{ m *MemStore }

func (m *MemStore) Accounts() MemAccounts { return MemAccounts{m} }

func (v MemAccounts) Create(_ context.Context, a models.Account) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("accounts.Create"); err != nil {
		return err
	}
	for _, existing := range v.m.accounts {
		if existing.Email == a.Email {
			return accountstore.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	v.m.accounts[a.ID] = a
	return nil
}

func (v MemAccounts) GetByID(_ context.Context, uid string) (*models.Account, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("accounts.GetByID"); err != nil {
		return nil, err
	}
	a, ok := v.m.accounts[uid]
	if !ok {
		return nil, accountstore.ErrNotFound
	}
	return &a, nil
}

func (v MemAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("accounts.GetByEmail"); err != nil {
		return nil, err
	}
	for _, a := range v.m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, accountstore.ErrNotFound
}

func (v MemAccounts) Update(_ context.Context, uid string, upd accountstore.Update) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("accounts.Update"); err != nil {
		return err
	}
	a, ok := v.m.accounts[uid]
	if !ok {
		return accountstore.ErrNotFound
	}
	if upd.Email != nil {
		for id, other := range v.m.accounts {
			if id != uid && other.Email == *upd.Email {
				return accountstore.ErrDuplicateEmail
			}
		}
		a.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		a.PasswordHash = *upd.PasswordHash
	}
	if upd.SuperAdmin != nil {
		a.SuperAdmin = *upd.SuperAdmin
	}
	a.UpdatedAt = time.Now().UTC()
	v.m.accounts[uid] = a
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// MemUsers mirrors userstore.Store.
type MemUsers struct{ m *MemStore }

func (m *MemStore) Users() MemUsers { return MemUsers{m} }

func (v MemUsers) GetByID(_ context.Context, uid string) (*models.User, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := v.m.users[uid]
	if !ok {
		return nil, userstore.ErrNotFound
	}
	return &u, nil
}

func (v MemUsers) Put(_ context.Context, u models.User) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.Put"); err != nil {
		return err
	}
	u.UID = u.ID
	v.m.users[u.ID] = u
	return nil
}

func (v MemUsers) Update(_ context.Context, uid string, upd userstore.Update) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.Update"); err != nil {
		return err
	}
	if upd.Empty() {
		return nil
	}
	u, ok := v.m.users[uid]
	if !ok {
		return userstore.ErrNotFound
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	now := time.Now().UTC()
	u.UpdatedAt = &now
	v.m.users[uid] = u
	return nil
}

func (v MemUsers) AddSchool(_ context.Context, uid, schoolID string) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.AddSchool"); err != nil {
		return err
	}
	u, ok := v.m.users[uid]
	if !ok {
		return userstore.ErrNotFound
	}
	for _, id := range u.SchoolIDs {
		if id == schoolID {
			return nil
		}
	}
	u.SchoolIDs = append(u.SchoolIDs, schoolID)
	v.m.users[uid] = u
	return nil
}

func (v MemUsers) MakeOrganizationAdmin(_ context.Context, uid, orgID string) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.MakeOrganizationAdmin"); err != nil {
		return err
	}
	u, ok := v.m.users[uid]
	if !ok {
		u = models.User{ID: uid, UID: uid}
	}
	u.OrganizationID = orgID
	u.Role = models.RoleAdmin
	now := time.Now().UTC()
	u.UpdatedAt = &now
	v.m.users[uid] = u
	return nil
}

func (v MemUsers) ListIDsByRole(_ context.Context, role string) ([]string, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.ListIDsByRole"); err != nil {
		return nil, err
	}
	var ids []string
	for id, u := range v.m.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (v MemUsers) ResetDailyStatus(_ context.Context, uids []string, date string) (int64, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("users.ResetDailyStatus"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range uids {
		u, ok := v.m.users[id]
		if !ok {
			continue
		}
		u.TodayStatus = models.StatusNotArrived
		u.TodayDate = date
		u.TodayDisplayStatus = models.DisplayStatus{}
		u.HasUnreadFromStudent = false
		v.m.users[id] = u
		n++
	}
	return n, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Tenants                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// MemSchools mirrors schoolstore.Store.
type MemSchools struct{ m *MemStore }

func (m *MemStore) Schools() MemSchools { return MemSchools{m} }

func (v MemSchools) Create(_ context.Context, s models.School) (models.School, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("schools.Create"); err != nil {
		return models.School{}, err
	}
	if _, ok := v.m.schools[s.ID]; ok {
		return models.School{}, schoolstore.ErrDuplicateSchool
	}
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	v.m.schools[s.ID] = s
	return s, nil
}

func (v MemSchools) GetByID(_ context.Context, id string) (*models.School, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("schools.GetByID"); err != nil {
		return nil, err
	}
	s, ok := v.m.schools[id]
	if !ok {
		return nil, schoolstore.ErrNotFound
	}
	return &s, nil
}

func (v MemSchools) Exists(_ context.Context, id string) (bool, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("schools.Exists"); err != nil {
		return false, err
	}
	_, ok := v.m.schools[id]
	return ok, nil
}

// MemOrganizations mirrors organizationstore.Store.
type MemOrganizations struct{ m *MemStore }

func (m *MemStore) Organizations() MemOrganizations { return MemOrganizations{m} }

func (v MemOrganizations) Create(_ context.Context, o models.Organization) (models.Organization, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("organizations.Create"); err != nil {
		return models.Organization{}, err
	}
	if _, ok := v.m.organizations[o.ID]; ok {
		return models.Organization{}, organizationstore.ErrDuplicateOrganization
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	v.m.organizations[o.ID] = o
	return o, nil
}

func (v MemOrganizations) Exists(_ context.Context, id string) (bool, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("organizations.Exists"); err != nil {
		return false, err
	}
	_, ok := v.m.organizations[id]
	return ok, nil
}

// MemMembers mirrors membershipstore.Store.
type MemMembers struct{ m *MemStore }

func (m *MemStore) Members() MemMembers { return MemMembers{m} }

func (v MemMembers) Get(_ context.Context, schoolID, uid string) (*models.SchoolMember, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("members.Get"); err != nil {
		return nil, err
	}
	sm, ok := v.m.members[models.SchoolMemberID(schoolID, uid)]
	if !ok {
		return nil, membershipstore.ErrNotFound
	}
	return &sm, nil
}

func (v MemMembers) Put(_ context.Context, sm models.SchoolMember) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("members.Put"); err != nil {
		return err
	}
	sm.ID = models.SchoolMemberID(sm.SchoolID, sm.UID)
	v.m.members[sm.ID] = sm
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Invitations                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// MemInvitations mirrors invitationstore.Store, including the one-pending
// invariant that the partial unique index enforces in Mongo.
type MemInvitations struct{ m *MemStore }

func (m *MemStore) Invitations() MemInvitations { return MemInvitations{m} }

func (v MemInvitations) Create(_ context.Context, inv models.Invitation) (models.Invitation, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("invitations.Create"); err != nil {
		return models.Invitation{}, err
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}
	for _, existing := range v.m.invitations {
		if existing.Status == models.InvitationPending && inv.Status == models.InvitationPending &&
			existing.Email == inv.Email && existing.SchoolID == inv.SchoolID {
			return models.Invitation{}, invitationstore.ErrDuplicatePending
		}
	}
	inv.ID = primitive.NewObjectID()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	v.m.invitations[inv.ID] = inv
	return inv, nil
}

func (v MemInvitations) HasPending(_ context.Context, email, schoolID string) (bool, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("invitations.HasPending"); err != nil {
		return false, err
	}
	for _, inv := range v.m.invitations {
		if inv.Status == models.InvitationPending && inv.Email == email && inv.SchoolID == schoolID {
			return true, nil
		}
	}
	return false, nil
}

func (v MemInvitations) FindPendingByToken(_ context.Context, token string) (*models.Invitation, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("invitations.FindPendingByToken"); err != nil {
		return nil, err
	}
	for _, inv := range v.m.invitations {
		if inv.Status == models.InvitationPending && inv.Token == token {
			return &inv, nil
		}
	}
	return nil, invitationstore.ErrNotFound
}

func (v MemInvitations) MarkAccepted(_ context.Context, id primitive.ObjectID, at time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("invitations.MarkAccepted"); err != nil {
		return err
	}
	inv, ok := v.m.invitations[id]
	if !ok || inv.Status != models.InvitationPending {
		return invitationstore.ErrNotPending
	}
	inv.Status = models.InvitationAccepted
	inv.AcceptedAt = &at
	v.m.invitations[id] = inv
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Maintenance collections                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// MemDailyStatus mirrors dailystatusstore.Store.
type MemDailyStatus struct{ m *MemStore }

func (m *MemStore) DailyStatus() MemDailyStatus { return MemDailyStatus{m} }

func (v MemDailyStatus) ListBefore(_ context.Context, cutoff string) ([]models.DailyStatus, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("dailystatus.ListBefore"); err != nil {
		return nil, err
	}
	var out []models.DailyStatus
	for _, ds := range v.m.dailyStatus {
		if ds.Date != "" && ds.Date < cutoff {
			out = append(out, ds)
		}
	}
	sort.Slice(out, func(i, j int) bool { return keyOf(out[i].ID) < keyOf(out[j].ID) })
	return out, nil
}

func (v MemDailyStatus) Delete(_ context.Context, id any) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("dailystatus.Delete"); err != nil {
		return err
	}
	delete(v.m.dailyStatus, keyOf(id))
	return nil
}

// MemChecklists mirrors checkliststore.Store.
type MemChecklists struct{ m *MemStore }

func (m *MemStore) Checklists() MemChecklists { return MemChecklists{m} }

func (v MemChecklists) ListUnsubmittedIDs(_ context.Context, month string) ([]any, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("checklists.ListUnsubmittedIDs"); err != nil {
		return nil, err
	}
	var keys []string
	for k, rec := range v.m.checklists {
		if rec.Month == month && !rec.IsSubmitted {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	ids := make([]any, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, v.m.checklists[k].ID)
	}
	return ids, nil
}

func (v MemChecklists) Submit(_ context.Context, ids []any, at time.Time, by string) (int64, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("checklists.Submit"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		k := keyOf(id)
		rec, ok := v.m.checklists[k]
		if !ok || rec.IsSubmitted {
			continue
		}
		rec.IsSubmitted = true
		t := at
		rec.SubmittedAt = &t
		rec.SubmittedBy = by
		v.m.checklists[k] = rec
		n++
	}
	return n, nil
}

// MemDocuments mirrors documentstore.Store.
type MemDocuments struct{ m *MemStore }

func (m *MemStore) Documents() MemDocuments { return MemDocuments{m} }

func (v MemDocuments) GetByID(_ context.Context, id string) (*models.Document, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	if err := v.m.op("documents.GetByID"); err != nil {
		return nil, err
	}
	d, ok := v.m.documents[id]
	if !ok {
		return nil, documentstore.ErrNotFound
	}
	return &d, nil
}
