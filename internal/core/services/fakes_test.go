package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// fakeAlumniRepo is an in-memory AlumniRepository for service tests. It runs
// the model hooks by hand so lifecycle defaults behave like the real store.
type fakeAlumniRepo struct {
	mu           sync.Mutex
	seq          uint
	records      map[uint]*models.Alumni
	statusHist   []*models.StatusHistoryEntry
	positionHist []*models.PositionHistoryEntry
	shippingHist []*models.ShippingHistoryEntry

	// failChangeStatus makes ChangeStatus fail before writing anything,
	// standing in for a rolled-back transaction
	failChangeStatus error
}

func newFakeAlumniRepo() *fakeAlumniRepo {
	return &fakeAlumniRepo{records: map[uint]*models.Alumni{}}
}

func (r *fakeAlumniRepo) Create(ctx context.Context, alumni *models.Alumni) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.IDCard == alumni.IDCard {
			return domain.ErrDuplicateIDCard
		}
	}
	if err := alumni.BeforeCreate(nil); err != nil {
		return err
	}
	if err := alumni.BeforeSave(nil); err != nil {
		return err
	}
	r.seq++
	alumni.ID = r.seq
	alumni.CreatedAt = time.Now()
	r.records[alumni.ID] = alumni
	return nil
}

// Reads hand out copies so callers mutating the result cannot touch the
// store until a write method persists it, mirroring the real repository.
func (r *fakeAlumniRepo) GetByID(ctx context.Context, id uint) (*models.Alumni, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		return nil, domain.ErrAlumniNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAlumniRepo) GetByIDCard(ctx context.Context, idCard string) (*models.Alumni, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.IDCard == idCard {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAlumniNotFound
}

func (r *fakeAlumniRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Alumni, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.TrackingNumber == trackingNumber {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAlumniNotFound
}

func (r *fakeAlumniRepo) ExistsByIDCard(ctx context.Context, idCard string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.IDCard == idCard {
			return true, nil
		}
	}
	return false, nil
}

func matchesFilter(a *models.Alumni, filter *repositories.AlumniFilter) bool {
	if filter.Status != "" && a.Status != filter.Status {
		return false
	}
	if filter.Position != "" && a.Position != filter.Position {
		return false
	}
	if filter.ShippingStatus != "" && a.ShippingStatus != filter.ShippingStatus {
		return false
	}
	if filter.Department != "" && a.Department != filter.Department {
		return false
	}
	if filter.GraduationYear > 0 && a.GraduationYear != filter.GraduationYear {
		return false
	}
	if filter.Search != "" {
		s := filter.Search
		if !strings.Contains(a.FirstName, s) && !strings.Contains(a.LastName, s) &&
			!strings.Contains(a.IDCard, s) && !strings.Contains(a.TrackingNumber, s) {
			return false
		}
	}
	return true
}

func (r *fakeAlumniRepo) List(ctx context.Context, filter *repositories.AlumniFilter) ([]*models.Alumni, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.Alumni
	for _, a := range r.records {
		if matchesFilter(a, filter) {
			items = append(items, a)
		}
	}
	return items, int64(len(items)), nil
}

func (r *fakeAlumniRepo) ListShippable(ctx context.Context, filter *repositories.AlumniFilter) ([]*models.Alumni, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.Alumni
	for _, a := range r.records {
		if !a.IsShippable() {
			continue
		}
		if matchesFilter(a, filter) {
			items = append(items, a)
		}
	}
	return items, int64(len(items)), nil
}

func (r *fakeAlumniRepo) Update(ctx context.Context, alumni *models.Alumni) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[alumni.ID]; !ok {
		return domain.ErrAlumniNotFound
	}
	if err := alumni.BeforeSave(nil); err != nil {
		return err
	}
	r.records[alumni.ID] = alumni
	return nil
}

func (r *fakeAlumniRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return domain.ErrAlumniNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeAlumniRepo) ChangePosition(ctx context.Context, alumni *models.Alumni, maxHolders int, entry *models.PositionHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if maxHolders > 0 {
		holders := 0
		for id, a := range r.records {
			if id != alumni.ID && a.Position == entry.Value {
				holders++
			}
		}
		if holders >= maxHolders {
			return domain.ErrPositionSlotFull
		}
	}
	if err := alumni.BeforeSave(nil); err != nil {
		return err
	}
	r.records[alumni.ID] = alumni
	r.positionHist = append(r.positionHist, entry)
	return nil
}

func (r *fakeAlumniRepo) ChangeStatus(ctx context.Context, alumni *models.Alumni, entry *models.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failChangeStatus != nil {
		return r.failChangeStatus
	}
	if _, ok := r.records[alumni.ID]; !ok {
		return domain.ErrAlumniNotFound
	}
	if err := alumni.BeforeSave(nil); err != nil {
		return err
	}
	r.records[alumni.ID] = alumni
	r.statusHist = append(r.statusHist, entry)
	return nil
}

func (r *fakeAlumniRepo) ChangeShipping(ctx context.Context, alumni *models.Alumni, entry *models.ShippingHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[alumni.ID]; !ok {
		return domain.ErrAlumniNotFound
	}
	if err := alumni.BeforeSave(nil); err != nil {
		return err
	}
	r.records[alumni.ID] = alumni
	r.shippingHist = append(r.shippingHist, entry)
	return nil
}

func (r *fakeAlumniRepo) CountByShippingStatus(ctx context.Context, shippingStatus string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.records {
		if a.IsShippable() && a.ShippingStatus == shippingStatus {
			count++
		}
	}
	return count, nil
}

func (r *fakeAlumniRepo) CountPendingSince(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.records {
		if a.Status == string(domain.StatusPendingReview) && a.CreatedAt.Before(before) {
			count++
		}
	}
	return count, nil
}

// fakeUserRepo is an in-memory UserRepository. Missing records come back as
// gorm.ErrRecordNotFound, matching the real store.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.User
	for _, u := range r.users {
		items = append(items, u)
	}
	return items, int64(len(items)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

// fakeRefreshTokenRepo is an in-memory RefreshTokenRepository
type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	seq    uint
	tokens map[uint]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: map[uint]*models.RefreshToken{}}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = r.seq
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}

// fakeNotificationRepo is an in-memory NotificationRepository
type fakeNotificationRepo struct {
	mu    sync.Mutex
	items map[string]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: map[string]*models.Notification{}}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.items[n.ID.Hex()] = n
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return n, nil
}

func inInbox(n *models.Notification, userID uint) bool {
	return n.UserID == nil || *n.UserID == userID
}

func (r *fakeNotificationRepo) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.Notification
	for _, n := range r.items {
		if inInbox(n, userID) && !n.IsExpired(time.Now()) {
			items = append(items, n)
		}
	}
	return items, int64(len(items)), nil
}

func (r *fakeNotificationRepo) ListUnreadForUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.Notification
	for _, n := range r.items {
		if inInbox(n, userID) && !n.IsExpired(time.Now()) && !n.ReadByUser(userID) {
			items = append(items, n)
		}
	}
	return items, nil
}

func (r *fakeNotificationRepo) AppendReadReceipt(ctx context.Context, id string, receipt models.ReadReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.ReadBy = append(n.ReadBy, receipt)
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotificationNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeNotificationRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, n := range r.items {
		if n.ExpiresAt != nil && !n.ExpiresAt.After(before) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}
