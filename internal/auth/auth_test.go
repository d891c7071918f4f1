// internal/auth/auth_test.go
package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"centledger/internal/domain"
	"centledger/internal/repository"
	"centledger/internal/util"
	"centledger/pkg/db"
)

// stubTx satisfies db.TxController and repository.DBExecutor like *sqlx.Tx
// does; the SQL methods are never reached because the repository is mocked.
type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }
func (stubTx) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return nil
}
func (stubTx) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return nil
}
func (stubTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (stubTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

// MockAccountRepository is a mock implementation of
// repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.Account, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountsForUpdate(ctx context.Context, q repository.DBExecutor, ids []uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	args := m.Called(ctx, q, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetAccountBalance(ctx context.Context, q repository.DBExecutor, id uuid.UUID, balanceCents int64) error {
	args := m.Called(ctx, q, id, balanceCents)
	return args.Error(0)
}

func newTestService(accountRepo repository.AccountRepository) Service {
	return NewService(
		nil,
		stubTx{},
		accountRepo,
		"test-secret",
		time.Hour,
		func(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) {
			return stubTx{}, nil
		},
		func(tx db.TxController) error { return tx.Commit() },
		func(tx db.TxController) { _ = tx.Rollback() },
	)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := newTestService(repo)

		repo.On("GetAccountByEmail", ctx, mock.Anything, "alice@example.com").
			Return(nil, util.ErrNotFound).Once()

		var created *domain.Account
		repo.On("CreateAccount", ctx, mock.Anything, mock.AnythingOfType("*domain.Account")).
			Run(func(args mock.Arguments) {
				created = args.Get(2).(*domain.Account)
			}).Return(nil).Once()

		account, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")

		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, created.ID, account.ID)
		assert.Equal(t, int64(0), account.BalanceCents)
		assert.NotEqual(t, "s3cret-pass", account.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("s3cret-pass")))
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := newTestService(repo)

		existing := domain.NewAccount("alice@example.com", "Alice", "hash")
		repo.On("GetAccountByEmail", ctx, mock.Anything, "alice@example.com").
			Return(existing, nil).Once()

		_, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")

		assert.ErrorIs(t, err, util.ErrDuplicateEntry)
		repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	account := domain.NewAccount("alice@example.com", "Alice", string(hash))

	t.Run("SuccessAndTokenRoundTrip", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := newTestService(repo)

		repo.On("GetAccountByEmail", ctx, mock.Anything, "alice@example.com").
			Return(account, nil).Once()

		token, loggedIn, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, account.ID, loggedIn.ID)

		accountID, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, accountID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := newTestService(repo)

		repo.On("GetAccountByEmail", ctx, mock.Anything, "alice@example.com").
			Return(account, nil).Once()

		_, _, err := svc.Login(ctx, "alice@example.com", "wrong-pass")
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := newTestService(repo)

		repo.On("GetAccountByEmail", ctx, mock.Anything, "nobody@example.com").
			Return(nil, util.ErrNotFound).Once()

		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})
}

func TestVerifyToken(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := newTestService(repo)

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewService(nil, stubTx{}, repo, "other-secret", time.Hour,
			func(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) { return stubTx{}, nil },
			func(tx db.TxController) error { return tx.Commit() },
			func(tx db.TxController) { _ = tx.Rollback() },
		)

		hash, err := bcrypt.GenerateFromPassword([]byte("pw-123456"), bcrypt.MinCost)
		require.NoError(t, err)
		account := domain.NewAccount("bob@example.com", "Bob", string(hash))
		repo.On("GetAccountByEmail", mock.Anything, mock.Anything, "bob@example.com").
			Return(account, nil).Once()

		token, _, err := other.Login(context.Background(), "bob@example.com", "pw-123456")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})
}
