// Package storagetest provides an in-memory storage.Container for tests. It
// mirrors the cascade and conditional-update behaviour of the postgres
// repositories and can inject failures into the approval sagas.
package storagetest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"cityguide/internal/domain/favorites"
	"cityguide/internal/domain/places"
	"cityguide/internal/domain/pushtokens"
	"cityguide/internal/domain/storage"
	"cityguide/internal/domain/submissions"
	"cityguide/internal/domain/updates"
	"cityguide/internal/domain/users"

	"github.com/google/uuid"
)

type DB struct {
	mu sync.Mutex

	users       map[uuid.UUID]users.User
	places      map[uuid.UUID]places.Place
	favorites   map[uuid.UUID]favorites.Favorite
	submissions map[uuid.UUID]submissions.Submission
	updates     map[uuid.UUID]updates.UpdateRequest
	tokens      map[uuid.UUID]map[string]time.Time

	base time.Time
	seq  int

	// FailPlaceCreate is returned by the next place inserts while non-nil.
	FailPlaceCreate error
	// FailMarkMaterialized is returned by submission MarkMaterialized while non-nil.
	FailMarkMaterialized error
	// UpdateConflicts makes that many place updates lose to a concurrent writer.
	UpdateConflicts int
}

func New() *DB {
	return &DB{
		users:       map[uuid.UUID]users.User{},
		places:      map[uuid.UUID]places.Place{},
		favorites:   map[uuid.UUID]favorites.Favorite{},
		submissions: map[uuid.UUID]submissions.Submission{},
		updates:     map[uuid.UUID]updates.UpdateRequest{},
		tokens:      map[uuid.UUID]map[string]time.Time{},
		base:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Container wires every in-memory store into a storage.Container.
func (d *DB) Container() *storage.Container {
	return &storage.Container{
		Users:       UserStore{d},
		Places:      PlaceStore{d},
		Favorites:   FavoriteStore{d},
		Submissions: SubmissionStore{d},
		Updates:     UpdateStore{d},
		PushTokens:  TokenStore{d},
	}
}

// tick returns strictly increasing timestamps so orderings are stable.
func (d *DB) tick() time.Time {
	d.seq++
	return d.base.Add(time.Duration(d.seq) * time.Second)
}

// PlaceCount is a test helper.
func (d *DB) PlaceCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.places)
}

func copyPlace(p places.Place) places.Place {
	reviews := make([]places.Review, len(p.Reviews))
	copy(reviews, p.Reviews)
	p.Reviews = reviews
	if p.OwnerID != nil {
		id := *p.OwnerID
		p.OwnerID = &id
	}
	return p
}

// ---- users ----

type UserStore struct{ d *DB }

func (s UserStore) Create(_ context.Context, u *users.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.d.users {
		if existing.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = users.RoleUser
	}
	u.IsActive = true
	u.CreatedAt = s.d.tick()
	u.UpdatedAt = u.CreatedAt
	s.d.users[u.ID] = *u
	return nil
}

func (s UserStore) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u, ok := s.d.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (s UserStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s UserStore) List(_ context.Context) ([]users.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	list := []users.User{}
	for _, u := range s.d.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s UserStore) Update(_ context.Context, id uuid.UUID, patch users.Patch) (*users.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u, ok := s.d.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = s.d.tick()
	s.d.users[id] = u
	return &u, nil
}

func (s UserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(s.d.users, id)
	for fid, f := range s.d.favorites {
		if f.UserID == id {
			delete(s.d.favorites, fid)
		}
	}
	for sid, sub := range s.d.submissions {
		if sub.SubmittedBy == id {
			delete(s.d.submissions, sid)
		}
	}
	delete(s.d.tokens, id)
	for pid, p := range s.d.places {
		if p.OwnedBy(id) {
			p.OwnerID = nil
			s.d.places[pid] = p
		}
	}
	return nil
}

func (s UserStore) Stats(_ context.Context) (users.Stats, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var st users.Stats
	for _, u := range s.d.users {
		st.Total++
		if u.IsActive {
			st.Active++
		} else {
			st.Banned++
		}
	}
	return st, nil
}

// ---- places ----

type PlaceStore struct{ d *DB }

func (s PlaceStore) CreateIfAbsent(_ context.Context, p *places.Place) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if s.d.FailPlaceCreate != nil {
		return false, s.d.FailPlaceCreate
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := s.d.places[p.ID]; ok {
		return false, nil
	}
	*p = places.Recompute(*p)
	if p.Reviews == nil {
		p.Reviews = []places.Review{}
	}
	p.Version = 1
	p.CreatedAt = s.d.tick()
	p.UpdatedAt = p.CreatedAt
	s.d.places[p.ID] = copyPlace(*p)
	return true, nil
}

func (s PlaceStore) GetByID(_ context.Context, id uuid.UUID) (*places.Place, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	p, ok := s.d.places[id]
	if !ok {
		return nil, places.ErrNotFound
	}
	p = copyPlace(p)
	return &p, nil
}

func (s PlaceStore) List(_ context.Context, f places.Filter, limit, offset int) ([]places.Place, int, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	kw := strings.ToLower(strings.TrimSpace(f.Keyword))
	var matched []places.Place
	for _, p := range s.d.places {
		if f.City != "" && p.City != f.City {
			continue
		}
		if kw != "" &&
			!strings.Contains(strings.ToLower(p.Name), kw) &&
			!strings.Contains(strings.ToLower(p.Category), kw) &&
			!strings.Contains(strings.ToLower(p.Description), kw) {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		matched = append(matched, copyPlace(p))
	}

	col := places.SortColumn(f.Sort)
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch col {
		case "average_rating":
			if a.AverageRating != b.AverageRating {
				return a.AverageRating > b.AverageRating
			}
		case "total_reviews":
			if a.TotalReviews != b.TotalReviews {
				return a.TotalReviews > b.TotalReviews
			}
		case "name":
			if a.Name != b.Name {
				return a.Name > b.Name
			}
		case "created_at":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		}
		return a.ID.String() < b.ID.String()
	})

	total := len(matched)
	if offset >= total {
		return []places.Place{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s PlaceStore) ListCities(_ context.Context) ([]string, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	seen := map[string]bool{}
	cities := []string{}
	for _, p := range s.d.places {
		if !seen[p.City] {
			seen[p.City] = true
			cities = append(cities, p.City)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

func (s PlaceStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]places.Place, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	list := []places.Place{}
	for _, p := range s.d.places {
		if p.OwnedBy(ownerID) {
			list = append(list, copyPlace(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s PlaceStore) ListWithOwners(_ context.Context) ([]places.Place, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	list := []places.Place{}
	for _, p := range s.d.places {
		p = copyPlace(p)
		if p.OwnerID != nil {
			if u, ok := s.d.users[*p.OwnerID]; ok {
				p.Owner = &places.Owner{Name: u.Name, Email: u.Email}
			}
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s PlaceStore) Update(_ context.Context, p *places.Place) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	stored, ok := s.d.places[p.ID]
	if !ok {
		return places.ErrNotFound
	}
	if s.d.UpdateConflicts > 0 {
		s.d.UpdateConflicts--
		stored.Version++
		s.d.places[p.ID] = stored
		return places.ErrVersionConflict
	}
	if stored.Version != p.Version {
		return places.ErrVersionConflict
	}

	*p = places.Recompute(*p)
	p.Version++
	p.UpdatedAt = s.d.tick()
	p.OwnerID = stored.OwnerID
	p.CreatedAt = stored.CreatedAt
	s.d.places[p.ID] = copyPlace(*p)
	return nil
}

func (s PlaceStore) Delete(_ context.Context, id uuid.UUID) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.places[id]; !ok {
		return places.ErrNotFound
	}
	s.deleteLocked(id)
	return nil
}

func (s PlaceStore) DeleteOwned(_ context.Context, id, ownerID uuid.UUID) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	p, ok := s.d.places[id]
	if !ok || !p.OwnedBy(ownerID) {
		return places.ErrNotFound
	}
	s.deleteLocked(id)
	return nil
}

func (s PlaceStore) deleteLocked(id uuid.UUID) {
	delete(s.d.places, id)
	for fid, f := range s.d.favorites {
		if f.PlaceID == id {
			delete(s.d.favorites, fid)
		}
	}
}

func (s PlaceStore) Stats(_ context.Context) (places.Stats, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	byCategory := map[string]int{}
	byCity := map[string]int{}
	for _, p := range s.d.places {
		byCategory[p.Category]++
		byCity[p.City]++
	}
	return places.Stats{
		Total:      len(s.d.places),
		ByCategory: counts(byCategory),
		ByCity:     counts(byCity),
	}, nil
}

func counts(m map[string]int) []places.Count {
	list := []places.Count{}
	for k, n := range m {
		list = append(list, places.Count{Key: k, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Key < list[j].Key
	})
	return list
}

// ---- favorites ----

type FavoriteStore struct{ d *DB }

func (s FavoriteStore) Add(_ context.Context, userID, placeID uuid.UUID) (*favorites.Favorite, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	for _, f := range s.d.favorites {
		if f.UserID == userID && f.PlaceID == placeID {
			return nil, favorites.ErrAlreadyFavorited
		}
	}
	f := favorites.Favorite{ID: uuid.New(), UserID: userID, PlaceID: placeID, CreatedAt: s.d.tick()}
	s.d.favorites[f.ID] = f
	return &f, nil
}

func (s FavoriteStore) ListByUser(_ context.Context, userID uuid.UUID) ([]favorites.Entry, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	list := []favorites.Entry{}
	for _, f := range s.d.favorites {
		if f.UserID != userID {
			continue
		}
		p, ok := s.d.places[f.PlaceID]
		if !ok {
			continue
		}
		list = append(list, favorites.Entry{
			FavoriteID:    f.ID,
			PlaceID:       p.ID,
			Name:          p.Name,
			Category:      p.Category,
			City:          p.City,
			Description:   p.Description,
			Image:         p.Image,
			Rating:        p.Rating,
			AverageRating: p.AverageRating,
			TotalReviews:  p.TotalReviews,
			CreatedAt:     f.CreatedAt,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s FavoriteStore) Remove(_ context.Context, id, userID uuid.UUID) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	f, ok := s.d.favorites[id]
	if !ok || f.UserID != userID {
		return favorites.ErrNotFound
	}
	delete(s.d.favorites, id)
	return nil
}

// ---- submissions ----

type SubmissionStore struct{ d *DB }

func (s SubmissionStore) Create(_ context.Context, sub *submissions.Submission) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.Status = submissions.StatusPending
	sub.CreatedAt = s.d.tick()
	sub.UpdatedAt = sub.CreatedAt
	s.d.submissions[sub.ID] = *sub
	return nil
}

func (s SubmissionStore) GetByID(_ context.Context, id uuid.UUID) (*submissions.Submission, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	sub, ok := s.d.submissions[id]
	if !ok {
		return nil, submissions.ErrNotFound
	}
	return &sub, nil
}

func (s SubmissionStore) ListBySubmitter(_ context.Context, userID uuid.UUID) ([]submissions.Submission, error) {
	return s.list(func(sub submissions.Submission) bool { return sub.SubmittedBy == userID }, false)
}

func (s SubmissionStore) List(_ context.Context, status submissions.Status) ([]submissions.Submission, error) {
	return s.list(func(sub submissions.Submission) bool { return status == "" || sub.Status == status }, true)
}

func (s SubmissionStore) list(keep func(submissions.Submission) bool, withSubmitter bool) ([]submissions.Submission, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	list := []submissions.Submission{}
	for _, sub := range s.d.submissions {
		if !keep(sub) {
			continue
		}
		if withSubmitter {
			if u, ok := s.d.users[sub.SubmittedBy]; ok {
				sub.Submitter = &submissions.Submitter{Name: u.Name, Email: u.Email}
			}
		}
		list = append(list, sub)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s SubmissionStore) MarkReviewed(_ context.Context, id uuid.UUID, status submissions.Status, notes string, reviewerID uuid.UUID, at time.Time) (*submissions.Submission, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	sub, ok := s.d.submissions[id]
	if !ok || sub.Status != submissions.StatusPending {
		return nil, submissions.ErrNotPending
	}
	sub.Status = status
	sub.AdminNotes = notes
	sub.ReviewedBy = &reviewerID
	sub.ReviewedAt = &at
	sub.UpdatedAt = s.d.tick()
	s.d.submissions[id] = sub
	return &sub, nil
}

func (s SubmissionStore) RevertToPending(_ context.Context, id uuid.UUID) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	sub, ok := s.d.submissions[id]
	if !ok || sub.Status != submissions.StatusApproved || sub.MaterializedAt != nil {
		return false, nil
	}
	sub.Status = submissions.StatusPending
	sub.AdminNotes = ""
	sub.ReviewedBy = nil
	sub.ReviewedAt = nil
	s.d.submissions[id] = sub
	return true, nil
}

func (s SubmissionStore) MarkMaterialized(_ context.Context, id, placeID uuid.UUID, at time.Time) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if s.d.FailMarkMaterialized != nil {
		return s.d.FailMarkMaterialized
	}
	sub, ok := s.d.submissions[id]
	if !ok {
		return submissions.ErrNotFound
	}
	if sub.Status != submissions.StatusApproved {
		return submissions.ErrNotApproved
	}
	if sub.MaterializedAt != nil {
		return nil
	}
	sub.PlaceID = &placeID
	sub.MaterializedAt = &at
	s.d.submissions[id] = sub
	return nil
}

func (s SubmissionStore) ListUnmaterialized(_ context.Context, limit int) ([]submissions.Submission, error) {
	list, _ := s.list(func(sub submissions.Submission) bool {
		return sub.Status == submissions.StatusApproved && sub.MaterializedAt == nil
	}, false)
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s SubmissionStore) Stats(_ context.Context) (submissions.Stats, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var st submissions.Stats
	for _, sub := range s.d.submissions {
		switch sub.Status {
		case submissions.StatusPending:
			st.Pending++
		case submissions.StatusApproved:
			st.Approved++
		case submissions.StatusRejected:
			st.Rejected++
		}
	}
	return st, nil
}

// ---- update requests ----

type UpdateStore struct{ d *DB }

func (s UpdateStore) Create(_ context.Context, u *updates.UpdateRequest) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Status = updates.StatusPending
	u.CreatedAt = s.d.tick()
	u.UpdatedAt = u.CreatedAt
	s.d.updates[u.ID] = *u
	return nil
}

func (s UpdateStore) GetByID(_ context.Context, id uuid.UUID) (*updates.UpdateRequest, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u, ok := s.d.updates[id]
	if !ok {
		return nil, updates.ErrNotFound
	}
	return &u, nil
}

func (s UpdateStore) ListBySubmitter(_ context.Context, userID uuid.UUID) ([]updates.UpdateRequest, error) {
	return s.list(func(u updates.UpdateRequest) bool { return u.SubmittedBy == userID }, false)
}

func (s UpdateStore) List(_ context.Context, status updates.Status) ([]updates.UpdateRequest, error) {
	return s.list(func(u updates.UpdateRequest) bool { return status == "" || u.Status == status }, true)
}

func (s UpdateStore) list(keep func(updates.UpdateRequest) bool, withSubmitter bool) ([]updates.UpdateRequest, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	list := []updates.UpdateRequest{}
	for _, u := range s.d.updates {
		if !keep(u) {
			continue
		}
		if withSubmitter {
			if usr, ok := s.d.users[u.SubmittedBy]; ok {
				u.Submitter = &updates.Submitter{Name: usr.Name, Email: usr.Email}
			}
		}
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s UpdateStore) MarkReviewed(_ context.Context, id uuid.UUID, status updates.Status, notes string, reviewerID uuid.UUID, at time.Time) (*updates.UpdateRequest, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u, ok := s.d.updates[id]
	if !ok || u.Status != updates.StatusPending {
		return nil, updates.ErrNotPending
	}
	u.Status = status
	u.AdminNotes = notes
	u.ReviewedBy = &reviewerID
	u.ReviewedAt = &at
	u.UpdatedAt = s.d.tick()
	s.d.updates[id] = u
	return &u, nil
}

func (s UpdateStore) MarkApplied(_ context.Context, id uuid.UUID, result updates.ApplyResult, at time.Time) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u, ok := s.d.updates[id]
	if !ok || u.ApplyResult != updates.ApplyNone {
		return nil
	}
	u.ApplyResult = result
	u.AppliedAt = &at
	s.d.updates[id] = u
	return nil
}

func (s UpdateStore) ListUnapplied(_ context.Context, limit int) ([]updates.UpdateRequest, error) {
	list, _ := s.list(func(u updates.UpdateRequest) bool {
		return u.Status == updates.StatusApproved && u.ApplyResult == updates.ApplyNone
	}, false)
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s UpdateStore) Superseded(_ context.Context, u *updates.UpdateRequest) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if u.ReviewedAt == nil {
		return false, nil
	}
	for _, o := range s.d.updates {
		if o.ID == u.ID || o.PlaceID != u.PlaceID || o.ApplyResult != updates.ApplyApplied {
			continue
		}
		if o.ReviewedAt != nil && o.ReviewedAt.After(*u.ReviewedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s UpdateStore) CountPending(_ context.Context) (int, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	n := 0
	for _, u := range s.d.updates {
		if u.Status == updates.StatusPending {
			n++
		}
	}
	return n, nil
}

// ---- push tokens ----

type TokenStore struct{ d *DB }

func (s TokenStore) Save(_ context.Context, userID uuid.UUID, token string, _ json.RawMessage) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if s.d.tokens[userID] == nil {
		s.d.tokens[userID] = map[string]time.Time{}
	}
	s.d.tokens[userID][token] = s.d.tick()
	return nil
}

func (s TokenStore) Remove(_ context.Context, userID uuid.UUID, token string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	delete(s.d.tokens[userID], token)
	return nil
}

func (s TokenStore) RemoveTokens(_ context.Context, tokens []string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	for _, byToken := range s.d.tokens {
		for _, t := range tokens {
			delete(byToken, t)
		}
	}
	return nil
}

func (s TokenStore) TokensForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var list []string
	for t := range s.d.tokens[userID] {
		list = append(list, t)
	}
	sort.Strings(list)
	return list, nil
}

func (s TokenStore) PruneStale(_ context.Context, olderThan time.Duration) (int64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	cutoff := s.d.base.Add(time.Duration(s.d.seq) * time.Second).Add(-olderThan)
	var n int64
	for _, byToken := range s.d.tokens {
		for t, at := range byToken {
			if at.Before(cutoff) {
				delete(byToken, t)
				n++
			}
		}
	}
	return n, nil
}

var (
	_ users.Store       = UserStore{}
	_ places.Store      = PlaceStore{}
	_ favorites.Store   = FavoriteStore{}
	_ submissions.Store = SubmissionStore{}
	_ updates.Store     = UpdateStore{}
	_ pushtokens.Store  = TokenStore{}
)
