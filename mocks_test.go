package accounts_test

import (
	"context"
	"io"

	"github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements accounts.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountStore) FindByVerificationToken(ctx context.Context, token string) (*accounts.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountStore) Create(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountStore) UpdateFields(ctx context.Context, id uuid.UUID, update accounts.AccountUpdate) (*accounts.Account, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg accounts.Notification) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockAvatarPipeline implements accounts.AvatarPipeline
type MockAvatarPipeline struct {
	mock.Mock
}

func (m *MockAvatarPipeline) Process(ctx context.Context, accountID uuid.UUID, filename string, src io.Reader) (string, error) {
	args := m.Called(ctx, accountID, filename, src)
	return args.String(0), args.Error(1)
}

// testConfig implements accounts.Config
type testConfig struct {
	key     string
	baseURL string
}

func (c testConfig) GetSigningKey() string          { return c.key }
func (c testConfig) GetTokenExpiration() int        { return accounts.DefaultTokenExpiration }
func (c testConfig) GetIssuer() string              { return "go-accounts-test" }
func (c testConfig) GetPasswordCost() int           { return 4 }
func (c testConfig) GetVerificationBaseURL() string { return c.baseURL }

func newTestConfig() testConfig {
	return testConfig{
		key:     "test-signing-key",
		baseURL: "http://localhost:3000/api/users",
	}
}

func strPtr(s string) *string {
	return &s
}
