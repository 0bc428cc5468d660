package mocks

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/victormf2/pluginject"
	"github.com/victormf2/pluginject/internal/examples/gin/repositories"
	"github.com/victormf2/pluginject/internal/examples/gin/setup"
)

// RegisterTestServices applies the production bindings and then overrides
// the ones a test should not touch: logging is discarded and the repository
// is an in-memory fake instead of sqlite.
func RegisterTestServices(b *pluginject.Builder) {
	setup.RegisterServices(b)

	pluginject.Bind[*logrus.Entry](b, func() *logrus.Entry {
		logger := logrus.New()
		logger.Out = io.Discard
		return logrus.NewEntry(logger)
	})

	pluginject.Bind[repositories.IUserRepository](b, NewFakeUserRepository)
}

// FakeUserRepository is an in-memory IUserRepository.
type FakeUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]repositories.User
}

func NewFakeUserRepository() repositories.IUserRepository {
	return &FakeUserRepository{users: map[int64]repositories.User{}}
}

func (r *FakeUserRepository) Create(user *repositories.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *FakeUserRepository) GetByID(id int64) (*repositories.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, found := r.users[id]
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (r *FakeUserRepository) Update(user *repositories.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *FakeUserRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}
