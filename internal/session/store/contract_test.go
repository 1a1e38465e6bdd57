package store_test

import (
	"context"

	"github.com/stretchr/testify/suite"

	"realtyref/pkg/platform/sentinel"
)

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// runStoreContract exercises the behaviour every store shares.
func runStoreContract(s *suite.Suite, newStore func() kv) {
	ctx := context.Background()

	s.Run("missing key is ErrNotFound", func() {
		_, err := newStore().Get(ctx, "authToken")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("set then get returns value", func() {
		st := newStore()
		s.Require().NoError(st.Set(ctx, "authToken", "tok-1"))

		got, err := st.Get(ctx, "authToken")
		s.Require().NoError(err)
		s.Equal("tok-1", got)
	})

	s.Run("set overwrites", func() {
		st := newStore()
		s.Require().NoError(st.Set(ctx, "userType", "Customer"))
		s.Require().NoError(st.Set(ctx, "userType", "CallCenter"))

		got, err := st.Get(ctx, "userType")
		s.Require().NoError(err)
		s.Equal("CallCenter", got)
	})

	s.Run("delete removes only named keys", func() {
		st := newStore()
		s.Require().NoError(st.Set(ctx, "authToken", "tok"))
		s.Require().NoError(st.Set(ctx, "userType", "NRI"))
		s.Require().NoError(st.Set(ctx, "resetMobile", "9000000001"))

		s.Require().NoError(st.Delete(ctx, "authToken", "userType"))

		_, err := st.Get(ctx, "authToken")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = st.Get(ctx, "userType")
		s.ErrorIs(err, sentinel.ErrNotFound)
		mobile, err := st.Get(ctx, "resetMobile")
		s.Require().NoError(err)
		s.Equal("9000000001", mobile)
	})

	s.Run("delete of absent key is not an error", func() {
		s.NoError(newStore().Delete(ctx, "nope"))
	})
}
