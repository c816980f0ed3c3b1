package memory

import (
	"context"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	s *Store
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Pets = cloneIDs(u.Pets)
	c.Followers = cloneIDs(u.Followers)
	c.Following = cloneIDs(u.Following)
	return &c
}

func (r *UserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
		if user.FirebaseUID != "" && u.FirebaseUID == user.FirebaseUID {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) findFirst(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return uid != "" && u.FirebaseUID == uid })
}

func (r *UserRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Email == email || u.Username == username })
}

func (r *UserRepository) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := r.findFirst(func(u *models.User) bool { return u.Username == username })
	return err == nil, nil
}

func (r *UserRepository) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) UpdateUser(_ context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = *patch.ProfilePicture
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.FirebaseUID != nil {
		u.FirebaseUID = *patch.FirebaseUID
	}
	u.UpdatedAt = r.s.now()
	return cloneUser(u), nil
}

func (r *UserRepository) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.users, id)
	for _, u := range r.s.users {
		u.Followers = removeID(u.Followers, id)
		u.Following = removeID(u.Following, id)
	}
	return nil
}

func (r *UserRepository) SetFollow(_ context.Context, followerID, targetID primitive.ObjectID, follow bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.users[targetID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	follower, ok := r.s.users[followerID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if follow {
		target.Followers = addID(target.Followers, followerID)
		follower.Following = addID(follower.Following, targetID)
	} else {
		target.Followers = removeID(target.Followers, followerID)
		follower.Following = removeID(follower.Following, targetID)
	}
	now := r.s.now()
	target.UpdatedAt, follower.UpdatedAt = now, now
	return len(target.Followers), nil
}

func (r *UserRepository) AddPet(_ context.Context, userID, petID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Pets = addID(u.Pets, petID)
	return nil
}

func (r *UserRepository) RemovePet(_ context.Context, userID, petID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Pets = removeID(u.Pets, petID)
	return nil
}

func (r *UserRepository) SearchUsers(_ context.Context, query string, skip, limit int64) ([]models.User, int64, error) {
	return r.page(func(u *models.User) bool {
		return u.IsActive && (containsFold(u.Username, query) || containsFold(u.FullName, query))
	}, skip, limit)
}

func (r *UserRepository) ListUsers(_ context.Context, skip, limit int64) ([]models.User, int64, error) {
	return r.page(func(*models.User) bool { return true }, skip, limit)
}

func (r *UserRepository) page(match func(*models.User) bool, skip, limit int64) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []models.User
	for _, u := range r.s.users {
		if match(u) {
			all = append(all, *cloneUser(u))
		}
	}
	sortUsers(all)
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *UserRepository) CountUsers(_ context.Context, activeOnly bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, u := range r.s.users {
		if !activeOnly || u.IsActive {
			n++
		}
	}
	return n, nil
}
