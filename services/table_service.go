package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"tableserve/entity"
	"tableserve/repository"

	"gorm.io/gorm"
)

// SessionTTL bounds exposure from a leaked PIN without forcing
// re-authentication mid-meal.
const SessionTTL = 4 * time.Hour

// TableService owns table status and the table-session PIN lifecycle.
// The PIN plus status is the single source of truth for who may submit
// to a table's order; every customer-facing mutation goes through
// ValidateSession.
type TableService struct {
	DB       *gorm.DB
	Repo     *repository.TableRepository
	Throttle *PinThrottle

	now func() time.Time
}

func NewTableService(db *gorm.DB, repo *repository.TableRepository) *TableService {
	return &TableService{
		DB:       db,
		Repo:     repo,
		Throttle: NewPinThrottle(),
		now:      time.Now,
	}
}

type OpenTableResult struct {
	TableID   uint   `json:"tableId"`
	TableName string `json:"tableName"`
	TablePin  string `json:"tablePin"`
}

// OpenTable starts a dine-in session: generates the PIN, binds the
// waiter and flips the table to IN_USE. The PIN is returned exactly
// once and never logged.
func (s *TableService) OpenTable(tableID, restID, waiterID uint) (*OpenTableResult, error) {
	t, err := s.Repo.GetForRestaurant(tableID, restID)
	if err != nil {
		return nil, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}
	if t.Status != entity.TableAvailable {
		return nil, fmt.Errorf("table is currently %s: %w", t.Status, ErrInvalidState)
	}

	pin, err := generatePin()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(SessionTTL)

	affected, err := s.Repo.OpenGuard(s.DB, t.ID, waiterID, pin, expires)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("table was opened by someone else: %w", ErrConflict)
	}

	return &OpenTableResult{TableID: t.ID, TableName: t.Name, TablePin: pin}, nil
}

// ValidateSession is the sole authentication mechanism for anonymous
// table sessions. Expiry is checked passively on each access; there is
// no background sweep.
func (s *TableService) ValidateSession(tableID uint, pin string) (*entity.Table, error) {
	if wait := s.Throttle.WaitSeconds(tableID); wait > 0 {
		return nil, fmt.Errorf("too many failed attempts, retry in %ds: %w", wait, ErrUnauthorized)
	}

	t, err := s.Repo.Get(tableID)
	if err != nil {
		return nil, fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}

	if t.Status != entity.TableInUse || pin == "" || t.CurrentPin != pin {
		s.Throttle.RecordFailure(tableID)
		return nil, fmt.Errorf("invalid PIN for this table: %w", ErrUnauthorized)
	}

	if t.CurrentPinExpires == nil || s.now().After(*t.CurrentPinExpires) {
		return nil, fmt.Errorf("table PIN has expired: %w", ErrSessionExpired)
	}

	s.Throttle.RecordSuccess(tableID)
	return t, nil
}

// CloseSession releases the table after settlement: status back to
// AVAILABLE, waiter/PIN/expiry cleared atomically.
func (s *TableService) CloseSession(tx *gorm.DB, tableID uint) error {
	return s.Repo.Release(tx, tableID)
}

func (s *TableService) CreateTable(restID uint, name string) (*entity.Table, error) {
	exists, err := s.Repo.NameExists(restID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("a table with this name already exists: %w", ErrConflict)
	}

	t := entity.Table{Name: name, RestaurantID: restID, Status: entity.TableAvailable}
	if err := s.Repo.Create(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TableService) ListTables(restID uint) ([]entity.Table, error) {
	return s.Repo.ListForRestaurant(restID)
}

// ArchiveTable soft deletes; a table mid-session cannot be archived.
func (s *TableService) ArchiveTable(tableID, restID uint) error {
	t, err := s.Repo.GetForRestaurant(tableID, restID)
	if err != nil {
		return fmt.Errorf("table %d: %w", tableID, ErrNotFound)
	}
	if t.Status == entity.TableInUse {
		return fmt.Errorf("cannot archive a table that is in use: %w", ErrInvalidState)
	}
	return s.Repo.Archive(t.ID)
}

// generatePin draws uniformly from the 4-digit space.
func generatePin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", errors.New("pin generation failed")
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
