package page

import (
	"context"
	"errors"
	"time"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/domain"
)

var errStore = errors.New("store unavailable")

type listCall struct {
	AuthorID uint
	Topic    string
	Status   domain.ArticleStatus
	Req      domain.PageRequest
}

// fakeArticles is a scripted domain.ArticleService.
type fakeArticles struct {
	articles map[uint]*domain.Article
	topics   []domain.Topic
	listErr  error
	saveErr  error

	calls   []listCall
	created []domain.ArticleInput
	updated []domain.ArticleInput
}

func newFakeArticles(articles ...*domain.Article) *fakeArticles {
	f := &fakeArticles{articles: map[uint]*domain.Article{}}
	for _, a := range articles {
		f.articles[a.ID] = a
	}
	return f
}

func (f *fakeArticles) page(items []domain.Article, req domain.PageRequest) *domain.PageResult[domain.Article] {
	return &domain.PageResult[domain.Article]{Items: items, Total: int64(len(items)), Page: req.Page, PageSize: req.PageSize, TotalPages: 3}
}

func (f *fakeArticles) GetArticle(_ context.Context, id uint) (*domain.Article, error) {
	if a, ok := f.articles[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeArticles) GetOwnedArticle(_ context.Context, authorID, id uint) (*domain.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if a.AuthorID != authorID {
		return nil, domain.ErrForbidden
	}
	return a, nil
}

func (f *fakeArticles) ListPublished(_ context.Context, topic string, req domain.PageRequest) (*domain.PageResult[domain.Article], error) {
	f.calls = append(f.calls, listCall{Topic: topic, Status: domain.StatusPublished, Req: req})
	if f.listErr != nil {
		return nil, f.listErr
	}
	var items []domain.Article
	for _, a := range f.articles {
		if a.Status == domain.StatusPublished {
			items = append(items, *a)
		}
	}
	return f.page(items, req), nil
}

func (f *fakeArticles) ListByAuthor(_ context.Context, authorID uint, status domain.ArticleStatus, req domain.PageRequest) (*domain.PageResult[domain.Article], error) {
	f.calls = append(f.calls, listCall{AuthorID: authorID, Status: status, Req: req})
	if f.listErr != nil {
		return nil, f.listErr
	}
	var items []domain.Article
	for _, a := range f.articles {
		if a.AuthorID == authorID && (status == "" || a.Status == status) {
			items = append(items, *a)
		}
	}
	return f.page(items, req), nil
}

func (f *fakeArticles) CreateArticle(_ context.Context, authorID uint, in domain.ArticleInput) (*domain.Article, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, in)
	return &domain.Article{AuthorID: authorID, Title: in.Title}, nil
}

func (f *fakeArticles) UpdateArticle(_ context.Context, _, id uint, in domain.ArticleInput) (*domain.Article, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.updated = append(f.updated, in)
	return f.articles[id], nil
}

func (f *fakeArticles) DeleteArticle(context.Context, uint, uint) error { return nil }

func (f *fakeArticles) Topics(context.Context) ([]domain.Topic, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.topics, nil
}

// fakeUsers is a scripted domain.UserService.
type fakeUsers struct {
	user      *domain.User
	updateErr error
	listErr   error
	updated   bool
}

func (f *fakeUsers) GetUser(context.Context, uint) (*domain.User, error) {
	if f.user == nil {
		return nil, domain.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, _ uint, name, bio string) (*domain.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = true
	f.user.Name, f.user.Bio = name, bio
	return f.user, nil
}

func (f *fakeUsers) ListWriters(_ context.Context, req domain.PageRequest) (*domain.PageResult[domain.Writer], error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &domain.PageResult[domain.Writer]{
		Items: []domain.Writer{{User: *f.user, PublishedCount: 2}},
		Total: 1, Page: req.Page, PageSize: req.PageSize, TotalPages: 1,
	}, nil
}

// fakeAuth is a scripted auth.Service.
type fakeAuth struct {
	loginErr    error
	registerErr error
	logoutErr   error
	loggedOut   []string
	registered  []string
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*auth.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &auth.TokenResponse{Token: "tok-" + email, ExpiresAt: time.Now().Add(time.Hour).Unix(), UserID: 1, Name: "Alice"}, nil
}

func (f *fakeAuth) Register(_ context.Context, name, email, _ string) (*domain.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, email)
	return &domain.User{Name: name, Email: email}, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return f.logoutErr
}

func article(id, author uint, title string, status domain.ArticleStatus) *domain.Article {
	a := &domain.Article{AuthorID: author, Title: title, Body: "body", Topic: "go", Status: status}
	a.ID = id
	return a
}

var alice = auth.Session{UserID: 7, Name: "Alice", Token: "tok-alice"}
