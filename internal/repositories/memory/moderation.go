package memory

import (
	"context"
	"sort"
	"strconv"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ModerationRepository struct {
	s *Store
}

var _ repositories.ModerationRepository = (*ModerationRepository)(nil)

type flatReport struct {
	row   models.ReportRow
	index int
	user  primitive.ObjectID
}

func (r *ModerationRepository) ListReports(_ context.Context, status models.ReportStatus, skip, limit int64) ([]models.ReportRow, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []flatReport
	collect := func(kind models.ReportTarget, target primitive.ObjectID, reports []models.Report) {
		for i, rep := range reports {
			st := rep.EffectiveStatus()
			if status != "" && st != status {
				continue
			}
			all = append(all, flatReport{
				row: models.ReportRow{
					ID:        target.Hex() + "-" + strconv.Itoa(i),
					Type:      kind,
					TargetID:  target,
					Reason:    rep.Reason,
					Status:    st,
					CreatedAt: rep.CreatedAt,
				},
				index: i,
				user:  rep.User,
			})
		}
	}
	for _, p := range r.s.posts {
		collect(models.TargetPost, p.ID, p.Reports)
	}
	for _, c := range r.s.comments {
		collect(models.TargetComment, c.ID, c.Reports)
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.row.TargetID == b.row.TargetID && a.row.CreatedAt.Equal(b.row.CreatedAt) {
			return a.index > b.index
		}
		return newerFirst(a.row.CreatedAt, b.row.CreatedAt, a.row.TargetID, b.row.TargetID)
	})

	page := window(all, skip, limit)
	rows := make([]models.ReportRow, 0, len(page))
	for _, f := range page {
		row := f.row
		if u, ok := r.s.users[f.user]; ok {
			row.Reporter = &models.ReporterInfo{ID: u.ID, Username: u.Username, Email: u.Email}
		}
		rows = append(rows, row)
	}
	return rows, int64(len(all)), nil
}

func (r *ModerationRepository) PostsByCategory(_ context.Context) ([]models.CategoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, p := range r.s.posts {
		if p.IsActive {
			counts[p.Category]++
		}
	}
	out := make([]models.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *ModerationRepository) MostPopularPets(_ context.Context, limit int64) ([]models.PetPopularity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	likes := map[primitive.ObjectID]int64{}
	for _, p := range r.s.posts {
		if p.IsActive && p.Pet != nil {
			likes[*p.Pet] += int64(len(p.Likes))
		}
	}
	out := make([]models.PetPopularity, 0, len(likes))
	for id, n := range likes {
		pet, ok := r.s.pets[id]
		if !ok {
			continue
		}
		out = append(out, models.PetPopularity{PetID: id, Name: pet.Name, Owner: pet.Owner, LikesCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LikesCount != out[j].LikesCount {
			return out[i].LikesCount > out[j].LikesCount
		}
		return out[i].PetID.Hex() < out[j].PetID.Hex()
	})
	return window(out, 0, limit), nil
}

func (r *ModerationRepository) CountReportedPosts(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.posts {
		if len(p.Reports) > 0 {
			n++
		}
	}
	return n, nil
}

type ModerationLogRepository struct {
	s *Store
}

var _ repositories.ModerationLogRepository = (*ModerationLogRepository)(nil)

func (r *ModerationLogRepository) Record(_ context.Context, action *models.ModerationAction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	action.ID = uint(len(r.s.actions) + 1)
	if action.CreatedAt.IsZero() {
		action.CreatedAt = r.s.now()
	}
	r.s.actions = append(r.s.actions, *action)
	return nil
}

func (r *ModerationLogRepository) List(_ context.Context, skip, limit int) ([]models.ModerationAction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := len(r.s.actions)
	out := make([]models.ModerationAction, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, r.s.actions[i])
	}
	return window(out, int64(skip), int64(limit)), int64(n), nil
}
