package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
)

// mockPostRepository is an in-memory implementation of PostRepository that
// also owns comments so deletion can cascade.
type mockPostRepository struct {
	mu       sync.Mutex
	posts    map[int64]*data.Post
	comments *mockCommentRepository
	nextID   int64

	createErr error
	updateErr error
	deleteErr error

	createCalled int
	updateCalled int
	deleteCalled int
}

var _ PostRepository = (*mockPostRepository)(nil)

func newMockPostRepository(comments *mockCommentRepository) *mockPostRepository {
	return &mockPostRepository{posts: map[int64]*data.Post{}, comments: comments}
}

func (m *mockPostRepository) CreatePost(ctx context.Context, post *data.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalled++
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	post.ID = m.nextID
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepository) GetPostByID(ctx context.Context, id int64) (*data.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPostRepository) ListPosts(ctx context.Context, categoryID *int64) ([]*data.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := []*data.Post{}
	for _, p := range m.posts {
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		copied := *p
		posts = append(posts, &copied)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (m *mockPostRepository) UpdatePost(ctx context.Context, post *data.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalled++
	if m.updateErr != nil {
		return m.updateErr
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepository) DeletePost(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalled++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.posts[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.posts, id)
	if m.comments != nil {
		m.comments.deleteForPost(id)
	}
	return nil
}

// mockCommentRepository is an in-memory implementation of CommentRepository.
type mockCommentRepository struct {
	mu        sync.Mutex
	comments  []*data.Comment
	nextID    int64
	createErr error
}

var _ CommentRepository = (*mockCommentRepository)(nil)

func (m *mockCommentRepository) CreateComment(ctx context.Context, comment *data.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	comment.ID = m.nextID
	stored := *comment
	m.comments = append(m.comments, &stored)
	return nil
}

func (m *mockCommentRepository) GetCommentsByPostID(ctx context.Context, postID int64) ([]*data.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*data.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepository) deleteForPost(postID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.comments[:0]
	for _, c := range m.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	m.comments = kept
}

// mockCategoryRepository is a mock implementation of CategoryRepository.
type mockCategoryRepository struct {
	categories map[int64]*data.Category
	postCounts map[int64]int
	nextID     int64

	saveCalled   int
	deleteCalled int
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func newMockCategoryRepository(categories ...*data.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: map[int64]*data.Category{}, postCounts: map[int64]int{}}
	for _, c := range categories {
		m.categories[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*data.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*data.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	out := []*data.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) Save(ctx context.Context, category *data.Category) (int64, error) {
	m.saveCalled++
	m.nextID++
	category.ID = m.nextID
	m.categories[category.ID] = category
	return category.ID, nil
}

func (m *mockCategoryRepository) CountPosts(ctx context.Context, id int64) (int, error) {
	return m.postCounts[id], nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalled++
	if _, ok := m.categories[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// rolesAuthorizer grants exactly the listed roles.
func rolesAuthorizer(roles ...string) Authorizer {
	return AuthorizerFunc(func(ctx context.Context, role string) bool {
		for _, r := range roles {
			if r == role {
				return true
			}
		}
		return false
	})
}

var (
	adminOnly  = rolesAuthorizer(auth.RoleAdmin, auth.RoleAuthenticated)
	readerOnly = rolesAuthorizer(auth.RoleAuthenticated)
	nobody     = rolesAuthorizer()
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
