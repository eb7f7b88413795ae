package account_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/askiada/go-recordpipe/pkg/account"
)

func TestNewBankAccount(t *testing.T) {
	t.Parallel()

	acc, err := account.NewBankAccount(100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Balance())

	_, err = account.NewBankAccount(-1)
	require.ErrorIs(t, err, account.ErrNegativeBalance)
}

func TestBankAccountOperations(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		op       func(acc *account.BankAccount) error
		expErr   error
		expected int64
	}{
		"deposit": {
			op:       func(acc *account.BankAccount) error { return acc.Deposit(50) },
			expected: 150,
		},
		"withdraw": {
			op:       func(acc *account.BankAccount) error { return acc.Withdraw(30) },
			expected: 70,
		},
		"withdraw everything": {
			op:       func(acc *account.BankAccount) error { return acc.Withdraw(100) },
			expected: 0,
		},
		"zero deposit": {
			op:       func(acc *account.BankAccount) error { return acc.Deposit(0) },
			expErr:   account.ErrInvalidAmount,
			expected: 100,
		},
		"negative withdrawal": {
			op:       func(acc *account.BankAccount) error { return acc.Withdraw(-5) },
			expErr:   account.ErrInvalidAmount,
			expected: 100,
		},
		"overdraft": {
			op:       func(acc *account.BankAccount) error { return acc.Withdraw(101) },
			expErr:   account.ErrInsufficientFunds,
			expected: 100,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			acc, err := account.NewBankAccount(100)
			require.NoError(t, err)

			err = tc.op(acc)
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, acc.Balance())
		})
	}
}

func TestBankAccountConcurrentDeposits(t *testing.T) {
	t.Parallel()

	acc, err := account.NewBankAccount(0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, acc.Deposit(1))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), acc.Balance())
}

func TestUser(t *testing.T) {
	t.Parallel()

	user, err := account.NewUserWithCost("ada", "s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.Equal(t, "ada", user.Username())
	assert.True(t, user.Authenticate("s3cret"))
	assert.False(t, user.Authenticate("S3cret"))
	assert.False(t, user.Authenticate(""))

	_, err = account.NewUserWithCost("ada", "", bcrypt.MinCost)
	require.ErrorIs(t, err, account.ErrEmptyPassword)

	_, err = account.NewUserWithCost("ada", "s3cret", bcrypt.MaxCost+1)
	require.Error(t, err)
}
