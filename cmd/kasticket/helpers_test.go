package main

import (
	"errors"
	"testing"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFlagReachesEveryCommand(t *testing.T) {
	paths := [][]string{
		{"import"},
		{"enrich"},
		{"profile"},
		{"receipts", "list"},
		{"receipts", "delete"},
	}

	for _, path := range paths {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		flag := cmd.Flag("user")
		require.NotNil(t, flag, "command %v should inherit --user", path)
		assert.Equal(t, "u", flag.Shorthand)
	}
}

func TestRequireUser(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := requireUser()
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMissingConfig)
		var userErr *common.UserError
		assert.True(t, errors.As(err, &userErr))
	})

	t.Run("from flag", func(t *testing.T) {
		require.NoError(t, rootCmd.PersistentFlags().Set("user", "alice"))
		t.Cleanup(func() {
			_ = rootCmd.PersistentFlags().Set("user", "")
		})

		userID, err := requireUser()
		require.NoError(t, err)
		assert.Equal(t, "alice", userID)
	})
}
