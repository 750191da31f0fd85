// file: internals/store/memstore/memstore.go
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	classmodel "classtrack_backend/internals/features/classes/model"
	invoicemodel "classtrack_backend/internals/features/invoices/model"
	participantmodel "classtrack_backend/internals/features/participants/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
	usermodel "classtrack_backend/internals/features/users/model"
	"classtrack_backend/internals/store"
)

// Memstore is the in-memory replica backing the local/speculative execution
// context and the test suite. It mirrors the relational cascades of the
// authoritative schema. It is intended for a single logical caller; Atomic
// uses snapshot/restore rather than real isolation.
type Memstore struct {
	mu sync.Mutex

	users        map[string]usermodel.UserModel
	classes      map[string]classmodel.ClassModel
	coordinators []classmodel.ClassCoordinatorModel
	participants map[string]participantmodel.ParticipantModel
	sessions     map[string]sessionmodel.SessionModel
	sessionParts []sessionmodel.SessionParticipantModel
	invoices     map[string]invoicemodel.InvoiceModel
	invoiced     []invoicemodel.InvoicedSessionModel

	// Now is injectable so tests can pin creation times.
	Now func() time.Time
}

func New() *Memstore {
	return &Memstore{
		users:        map[string]usermodel.UserModel{},
		classes:      map[string]classmodel.ClassModel{},
		participants: map[string]participantmodel.ParticipantModel{},
		sessions:     map[string]sessionmodel.SessionModel{},
		invoices:     map[string]invoicemodel.InvoiceModel{},
		Now:          time.Now,
	}
}

func (m *Memstore) Users() store.UserStore               { return memUsers{m} }
func (m *Memstore) Classes() store.ClassStore            { return memClasses{m} }
func (m *Memstore) Participants() store.ParticipantStore { return memParticipants{m} }
func (m *Memstore) Sessions() store.SessionStore         { return memSessions{m} }
func (m *Memstore) Invoices() store.InvoiceStore         { return memInvoices{m} }

type snapshot struct {
	users        map[string]usermodel.UserModel
	classes      map[string]classmodel.ClassModel
	coordinators []classmodel.ClassCoordinatorModel
	participants map[string]participantmodel.ParticipantModel
	sessions     map[string]sessionmodel.SessionModel
	sessionParts []sessionmodel.SessionParticipantModel
	invoices     map[string]invoicemodel.InvoiceModel
	invoiced     []invoicemodel.InvoicedSessionModel
}

func (m *Memstore) snapshotLocked() snapshot {
	return snapshot{
		users:        copyMap(m.users),
		classes:      copyMap(m.classes),
		coordinators: append([]classmodel.ClassCoordinatorModel(nil), m.coordinators...),
		participants: copyMap(m.participants),
		sessions:     copyMap(m.sessions),
		sessionParts: append([]sessionmodel.SessionParticipantModel(nil), m.sessionParts...),
		invoices:     copyMap(m.invoices),
		invoiced:     append([]invoicemodel.InvoicedSessionModel(nil), m.invoiced...),
	}
}

func (m *Memstore) restoreLocked(s snapshot) {
	m.users = s.users
	m.classes = s.classes
	m.coordinators = s.coordinators
	m.participants = s.participants
	m.sessions = s.sessions
	m.sessionParts = s.sessionParts
	m.invoices = s.invoices
	m.invoiced = s.invoiced
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Atomic snapshots the replica, runs fn against the same store, and restores
// the snapshot when fn fails.
func (m *Memstore) Atomic(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.restoreLocked(snap)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *Memstore) stamp(t time.Time) time.Time {
	if !t.IsZero() {
		return t
	}
	return m.Now()
}

/* ================= users ================= */

type memUsers struct{ m *Memstore }

func (s memUsers) GetByID(_ context.Context, id string) (*usermodel.UserModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s memUsers) List(_ context.Context) ([]usermodel.UserModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]usermodel.UserModel, 0, len(s.m.users))
	for _, u := range s.m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memUsers) Insert(_ context.Context, u *usermodel.UserModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; ok {
		return fmt.Errorf("user %s already exists", u.ID)
	}
	u.CreatedAt = s.m.stamp(u.CreatedAt)
	u.UpdatedAt = u.CreatedAt
	s.m.users[u.ID] = *u
	return nil
}

func (s memUsers) Update(_ context.Context, u *usermodel.UserModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	u.UpdatedAt = s.m.Now()
	s.m.users[u.ID] = *u
	return nil
}

func (s memUsers) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.users, id)
	// FK behavior: coordinator rows cascade, trainer/guardian refs null out.
	kept := s.m.coordinators[:0]
	for _, cc := range s.m.coordinators {
		if cc.CoordinatorID != id {
			kept = append(kept, cc)
		}
	}
	s.m.coordinators = kept
	for cid, c := range s.m.classes {
		if c.TrainerID != nil && *c.TrainerID == id {
			c.TrainerID = nil
		}
		if c.GuardianID != nil && *c.GuardianID == id {
			c.GuardianID = nil
		}
		s.m.classes[cid] = c
	}
	return nil
}

/* ================= classes ================= */

type memClasses struct{ m *Memstore }

func (s memClasses) GetByID(_ context.Context, id string) (*classmodel.ClassModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.classes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s memClasses) List(_ context.Context) ([]classmodel.ClassModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]classmodel.ClassModel, 0, len(s.m.classes))
	for _, c := range s.m.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memClasses) CoordinatorIDs(_ context.Context, classID string) ([]string, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.classes[classID]; !ok {
		return nil, store.ErrNotFound
	}
	var ids []string
	for _, cc := range s.m.coordinators {
		if cc.ClassID == classID {
			ids = append(ids, cc.CoordinatorID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s memClasses) Insert(_ context.Context, c *classmodel.ClassModel, coordinatorIDs []string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.classes[c.ID]; ok {
		return fmt.Errorf("class %s already exists", c.ID)
	}
	c.CreatedAt = s.m.stamp(c.CreatedAt)
	c.UpdatedAt = c.CreatedAt
	s.m.classes[c.ID] = *c
	for _, id := range coordinatorIDs {
		s.m.coordinators = append(s.m.coordinators, classmodel.ClassCoordinatorModel{
			ClassID: c.ID, CoordinatorID: id, CreatedAt: c.CreatedAt,
		})
	}
	return nil
}

func (s memClasses) Update(_ context.Context, c *classmodel.ClassModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.classes[c.ID]; !ok {
		return store.ErrNotFound
	}
	c.UpdatedAt = s.m.Now()
	s.m.classes[c.ID] = *c
	return nil
}

func (s memClasses) AddCoordinators(_ context.Context, classID string, coordinatorIDs []string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.classes[classID]; !ok {
		return store.ErrNotFound
	}
	for _, id := range coordinatorIDs {
		s.m.coordinators = append(s.m.coordinators, classmodel.ClassCoordinatorModel{
			ClassID: classID, CoordinatorID: id, CreatedAt: s.m.Now(),
		})
	}
	return nil
}

func (s memClasses) RemoveCoordinators(_ context.Context, classID string, coordinatorIDs []string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range coordinatorIDs {
		drop[id] = true
	}
	kept := s.m.coordinators[:0]
	for _, cc := range s.m.coordinators {
		if cc.ClassID == classID && drop[cc.CoordinatorID] {
			continue
		}
		kept = append(kept, cc)
	}
	s.m.coordinators = kept
	return nil
}

func (s memClasses) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.classes[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.classes, id)

	keptCC := s.m.coordinators[:0]
	for _, cc := range s.m.coordinators {
		if cc.ClassID != id {
			keptCC = append(keptCC, cc)
		}
	}
	s.m.coordinators = keptCC

	for pid, p := range s.m.participants {
		if p.ClassID == id {
			delete(s.m.participants, pid)
			s.dropParticipantLinksLocked(pid)
		}
	}
	for sid, sess := range s.m.sessions {
		if sess.ClassID == id {
			delete(s.m.sessions, sid)
			s.dropSessionLinksLocked(sid)
		}
	}
	for iid, inv := range s.m.invoices {
		if inv.ClassID == id {
			delete(s.m.invoices, iid)
			s.dropInvoiceLinksLocked(iid)
		}
	}
	return nil
}

func (s memClasses) dropParticipantLinksLocked(participantID string) {
	kept := s.m.sessionParts[:0]
	for _, sp := range s.m.sessionParts {
		if sp.ParticipantID != participantID {
			kept = append(kept, sp)
		}
	}
	s.m.sessionParts = kept
}

func (s memClasses) dropSessionLinksLocked(sessionID string) {
	keptSP := s.m.sessionParts[:0]
	for _, sp := range s.m.sessionParts {
		if sp.SessionID != sessionID {
			keptSP = append(keptSP, sp)
		}
	}
	s.m.sessionParts = keptSP

	keptIV := s.m.invoiced[:0]
	for _, iv := range s.m.invoiced {
		if iv.SessionID != sessionID {
			keptIV = append(keptIV, iv)
		}
	}
	s.m.invoiced = keptIV
}

func (s memClasses) dropInvoiceLinksLocked(invoiceID string) {
	kept := s.m.invoiced[:0]
	for _, iv := range s.m.invoiced {
		if iv.InvoiceID != invoiceID {
			kept = append(kept, iv)
		}
	}
	s.m.invoiced = kept
}

/* ================= participants ================= */

type memParticipants struct{ m *Memstore }

func (s memParticipants) GetByID(_ context.Context, id string) (*participantmodel.ParticipantModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.participants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s memParticipants) Insert(_ context.Context, p *participantmodel.ParticipantModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.participants[p.ID]; ok {
		return fmt.Errorf("participant %s already exists", p.ID)
	}
	p.CreatedAt = s.m.stamp(p.CreatedAt)
	p.UpdatedAt = p.CreatedAt
	s.m.participants[p.ID] = *p
	return nil
}

func (s memParticipants) Update(_ context.Context, p *participantmodel.ParticipantModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.participants[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = s.m.Now()
	s.m.participants[p.ID] = *p
	return nil
}

func (s memParticipants) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.participants[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.participants, id)
	memClasses{s.m}.dropParticipantLinksLocked(id)
	return nil
}

/* ================= sessions ================= */

type memSessions struct{ m *Memstore }

func (s memSessions) GetByID(_ context.Context, id string) (*sessionmodel.SessionModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sess, ok := s.m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sess, nil
}

func (s memSessions) Insert(_ context.Context, sess *sessionmodel.SessionModel, participantIDs []string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	sess.CreatedAt = s.m.stamp(sess.CreatedAt)
	sess.UpdatedAt = sess.CreatedAt
	s.m.sessions[sess.ID] = *sess
	for _, pid := range participantIDs {
		s.m.sessionParts = append(s.m.sessionParts, sessionmodel.SessionParticipantModel{
			ParticipantID: pid, SessionID: sess.ID, CreatedAt: sess.CreatedAt,
		})
	}
	return nil
}

func (s memSessions) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.sessions, id)
	memClasses{s.m}.dropSessionLinksLocked(id)
	return nil
}

/* ================= invoices ================= */

type memInvoices struct{ m *Memstore }

func (s memInvoices) GetByID(_ context.Context, id string) (*invoicemodel.InvoiceModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	inv, ok := s.m.invoices[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &inv, nil
}

func (s memInvoices) List(_ context.Context) ([]invoicemodel.InvoiceModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]invoicemodel.InvoiceModel, 0, len(s.m.invoices))
	for _, inv := range s.m.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memInvoices) Insert(_ context.Context, inv *invoicemodel.InvoiceModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.invoices[inv.ID]; ok {
		return fmt.Errorf("invoice %s already exists", inv.ID)
	}
	inv.CreatedAt = s.m.stamp(inv.CreatedAt)
	inv.UpdatedAt = inv.CreatedAt
	s.m.invoices[inv.ID] = *inv
	return nil
}

func (s memInvoices) Update(_ context.Context, inv *invoicemodel.InvoiceModel) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.invoices[inv.ID]; !ok {
		return store.ErrNotFound
	}
	inv.UpdatedAt = s.m.Now()
	s.m.invoices[inv.ID] = *inv
	return nil
}

func (s memInvoices) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.invoices[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.invoices, id)
	memClasses{s.m}.dropInvoiceLinksLocked(id)
	return nil
}

func (s memInvoices) UnbilledClassIDs(_ context.Context) ([]string, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	billed := map[string]bool{}
	for _, iv := range s.m.invoiced {
		billed[iv.SessionID] = true
	}
	seen := map[string]bool{}
	var ids []string
	for _, sess := range s.m.sessions {
		if !billed[sess.ID] && !seen[sess.ClassID] {
			seen[sess.ClassID] = true
			ids = append(ids, sess.ClassID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s memInvoices) UnbilledSessions(_ context.Context, classID string) ([]sessionmodel.SessionModel, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	billed := map[string]bool{}
	for _, iv := range s.m.invoiced {
		billed[iv.SessionID] = true
	}
	var out []sessionmodel.SessionModel
	for _, sess := range s.m.sessions {
		if sess.ClassID == classID && !billed[sess.ID] {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s memInvoices) LinkSessions(_ context.Context, invoiceID string, sessionIDs []string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.invoices[invoiceID]; !ok {
		return store.ErrNotFound
	}
	for _, sid := range sessionIDs {
		s.m.invoiced = append(s.m.invoiced, invoicemodel.InvoicedSessionModel{
			InvoiceID: invoiceID, SessionID: sid, CreatedAt: s.m.Now(),
		})
	}
	return nil
}

// InvoicedSessionIDs reports which of the given sessions are billed. Test
// helper; the production selection queries live on InvoiceStore.
func (m *Memstore) InvoicedSessionIDs(invoiceID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, iv := range m.invoiced {
		if iv.InvoiceID == invoiceID {
			ids = append(ids, iv.SessionID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Counts returns coarse row counts, used by tests asserting zero-write
// failures.
func (m *Memstore) Counts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int{
		"users":                len(m.users),
		"classes":              len(m.classes),
		"class_coordinators":   len(m.coordinators),
		"participants":         len(m.participants),
		"sessions":             len(m.sessions),
		"session_participants": len(m.sessionParts),
		"invoices":             len(m.invoices),
		"invoiced_sessions":    len(m.invoiced),
	}
}
