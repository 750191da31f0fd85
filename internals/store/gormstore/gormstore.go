// file: internals/store/gormstore/gormstore.go
package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classmodel "classtrack_backend/internals/features/classes/model"
	invoicemodel "classtrack_backend/internals/features/invoices/model"
	participantmodel "classtrack_backend/internals/features/participants/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
	usermodel "classtrack_backend/internals/features/users/model"
	"classtrack_backend/internals/store"
)

// Gormstore is the authoritative Domain Store over Postgres. Referential
// cleanup (cascades, SET NULL) is owned by the schema; deletes here remove
// only the named row.
type Gormstore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Gormstore {
	return &Gormstore{db: db}
}

func (g *Gormstore) Users() store.UserStore               { return gormUsers{g.db} }
func (g *Gormstore) Classes() store.ClassStore            { return gormClasses{g.db} }
func (g *Gormstore) Participants() store.ParticipantStore { return gormParticipants{g.db} }
func (g *Gormstore) Sessions() store.SessionStore         { return gormSessions{g.db} }
func (g *Gormstore) Invoices() store.InvoiceStore         { return gormInvoices{g.db} }

func (g *Gormstore) Atomic(ctx context.Context, fn func(store.Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

/* ================= users ================= */

type gormUsers struct{ db *gorm.DB }

func (s gormUsers) GetByID(ctx context.Context, id string) (*usermodel.UserModel, error) {
	var u usermodel.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s gormUsers) List(ctx context.Context) ([]usermodel.UserModel, error) {
	var out []usermodel.UserModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s gormUsers) Insert(ctx context.Context, u *usermodel.UserModel) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s gormUsers) Update(ctx context.Context, u *usermodel.UserModel) error {
	res := s.db.WithContext(ctx).Save(u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s gormUsers) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&usermodel.UserModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

/* ================= classes ================= */

type gormClasses struct{ db *gorm.DB }

func (s gormClasses) GetByID(ctx context.Context, id string) (*classmodel.ClassModel, error) {
	var c classmodel.ClassModel
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s gormClasses) List(ctx context.Context) ([]classmodel.ClassModel, error) {
	var out []classmodel.ClassModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s gormClasses) CoordinatorIDs(ctx context.Context, classID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&classmodel.ClassCoordinatorModel{}).
		Where("class_id = ?", classID).
		Order("coordinator_id ASC").
		Pluck("coordinator_id", &ids).Error
	return ids, err
}

func (s gormClasses) Insert(ctx context.Context, c *classmodel.ClassModel, coordinatorIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return insertCoordinators(tx, c.ID, coordinatorIDs)
	})
}

func (s gormClasses) Update(ctx context.Context, c *classmodel.ClassModel) error {
	res := s.db.WithContext(ctx).Save(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s gormClasses) AddCoordinators(ctx context.Context, classID string, coordinatorIDs []string) error {
	return insertCoordinators(s.db.WithContext(ctx), classID, coordinatorIDs)
}

func insertCoordinators(tx *gorm.DB, classID string, coordinatorIDs []string) error {
	if len(coordinatorIDs) == 0 {
		return nil
	}
	rows := make([]classmodel.ClassCoordinatorModel, 0, len(coordinatorIDs))
	for _, id := range coordinatorIDs {
		rows = append(rows, classmodel.ClassCoordinatorModel{ClassID: classID, CoordinatorID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (s gormClasses) RemoveCoordinators(ctx context.Context, classID string, coordinatorIDs []string) error {
	if len(coordinatorIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("class_id = ? AND coordinator_id IN ?", classID, coordinatorIDs).
		Delete(&classmodel.ClassCoordinatorModel{}).Error
}

func (s gormClasses) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&classmodel.ClassModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

/* ================= participants ================= */

type gormParticipants struct{ db *gorm.DB }

func (s gormParticipants) GetByID(ctx context.Context, id string) (*participantmodel.ParticipantModel, error) {
	var p participantmodel.ParticipantModel
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s gormParticipants) Insert(ctx context.Context, p *participantmodel.ParticipantModel) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s gormParticipants) Update(ctx context.Context, p *participantmodel.ParticipantModel) error {
	res := s.db.WithContext(ctx).Save(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s gormParticipants) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&participantmodel.ParticipantModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

/* ================= sessions ================= */

type gormSessions struct{ db *gorm.DB }

func (s gormSessions) GetByID(ctx context.Context, id string) (*sessionmodel.SessionModel, error) {
	var sess sessionmodel.SessionModel
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sess, nil
}

func (s gormSessions) Insert(ctx context.Context, sess *sessionmodel.SessionModel, participantIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sess).Error; err != nil {
			return err
		}
		if len(participantIDs) == 0 {
			return nil
		}
		rows := make([]sessionmodel.SessionParticipantModel, 0, len(participantIDs))
		for _, pid := range participantIDs {
			rows = append(rows, sessionmodel.SessionParticipantModel{
				ParticipantID: pid, SessionID: sess.ID,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (s gormSessions) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&sessionmodel.SessionModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

/* ================= invoices ================= */

type gormInvoices struct{ db *gorm.DB }

func (s gormInvoices) GetByID(ctx context.Context, id string) (*invoicemodel.InvoiceModel, error) {
	var inv invoicemodel.InvoiceModel
	if err := s.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (s gormInvoices) List(ctx context.Context) ([]invoicemodel.InvoiceModel, error) {
	var out []invoicemodel.InvoiceModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s gormInvoices) Insert(ctx context.Context, inv *invoicemodel.InvoiceModel) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s gormInvoices) Update(ctx context.Context, inv *invoicemodel.InvoiceModel) error {
	res := s.db.WithContext(ctx).Save(inv)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s gormInvoices) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&invoicemodel.InvoiceModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s gormInvoices) UnbilledClassIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Table("sessions AS s").
		Joins("LEFT JOIN invoiced_sessions AS iv ON iv.session_id = s.id").
		Where("iv.session_id IS NULL").
		Distinct().
		Pluck("s.class_id", &ids).Error
	return ids, err
}

func (s gormInvoices) UnbilledSessions(ctx context.Context, classID string) ([]sessionmodel.SessionModel, error) {
	var out []sessionmodel.SessionModel
	err := s.db.WithContext(ctx).
		Table("sessions AS s").
		Select("s.*").
		Joins("LEFT JOIN invoiced_sessions AS iv ON iv.session_id = s.id").
		Where("s.class_id = ? AND iv.session_id IS NULL", classID).
		Order("s.created_at ASC").
		Scan(&out).Error
	return out, err
}

func (s gormInvoices) LinkSessions(ctx context.Context, invoiceID string, sessionIDs []string) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	rows := make([]invoicemodel.InvoicedSessionModel, 0, len(sessionIDs))
	for _, sid := range sessionIDs {
		rows = append(rows, invoicemodel.InvoicedSessionModel{InvoiceID: invoiceID, SessionID: sid})
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}
