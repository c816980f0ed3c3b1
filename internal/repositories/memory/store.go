// Package memory provides in-process implementations of the repository
// interfaces for local development and tests. All repositories created from
// one Store share a single lock, so multi-document updates are atomic.
package memory

import (
	"bytes"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/petconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu         sync.RWMutex
	users      map[primitive.ObjectID]*models.User
	pets       map[primitive.ObjectID]*models.Pet
	posts      map[primitive.ObjectID]*models.Post
	comments   map[primitive.ObjectID]*models.Comment
	categories map[primitive.ObjectID]*models.Category
	actions    []models.ModerationAction
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[primitive.ObjectID]*models.User),
		pets:       make(map[primitive.ObjectID]*models.Pet),
		posts:      make(map[primitive.ObjectID]*models.Post),
		comments:   make(map[primitive.ObjectID]*models.Comment),
		categories: make(map[primitive.ObjectID]*models.Category),
		now:        time.Now,
	}
}

func (s *Store) Users() *UserRepository                  { return &UserRepository{s: s} }
func (s *Store) Pets() *PetRepository                    { return &PetRepository{s: s} }
func (s *Store) Posts() *PostRepository                  { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository            { return &CommentRepository{s: s} }
func (s *Store) Categories() *CategoryRepository         { return &CategoryRepository{s: s} }
func (s *Store) Moderation() *ModerationRepository       { return &ModerationRepository{s: s} }
func (s *Store) ModerationLog() *ModerationLogRepository { return &ModerationLogRepository{s: s} }

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func cloneReports(reports []models.Report) []models.Report {
	out := make([]models.Report, len(reports))
	copy(out, reports)
	return out
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if models.ContainsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// newerFirst orders by creation time then id, both descending.
func newerFirst(aTime, bTime time.Time, aID, bID primitive.ObjectID) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return bytes.Compare(aID[:], bID[:]) > 0
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// window applies skip/limit to an already sorted slice.
func window[T any](items []T, skip, limit int64) []T {
	n := int64(len(items))
	if skip < 0 || limit < 1 || skip >= n {
		return nil
	}
	end := skip + limit
	if end > n {
		end = n
	}
	return items[skip:end]
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool {
		return newerFirst(users[i].CreatedAt, users[j].CreatedAt, users[i].ID, users[j].ID)
	})
}
