package stub

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"realtyref/pkg/domain"
	"realtyref/pkg/platform/sentinel"
)

func newTestRecord(c domain.Collection, id, mobile, referredBy string, created time.Time) *Record {
	return &Record{
		ID:           id,
		Collection:   c,
		Role:         c.RegistrantRole(),
		Mobile:       mobile,
		PasswordHash: []byte("hash"),
		ReferredBy:   referredBy,
		Fields:       map[string]any{"FullName": id},
		CreatedAt:    created.UTC().Truncate(time.Millisecond),
		UpdatedAt:    created.UTC().Truncate(time.Millisecond),
	}
}

// runRecordStoreContract exercises the behaviour every RecordStore shares.
func runRecordStoreContract(s *suite.Suite, newStore func() RecordStore) {
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	s.Run("create then get round trips", func() {
		st := newStore()
		in := newTestRecord(domain.CollectionCustomers, "c1", "9000000001", "040401", t0)
		s.Require().NoError(st.Create(ctx, in))

		got, err := st.Get(ctx, domain.CollectionCustomers, "c1")
		s.Require().NoError(err)
		s.Equal(in.Mobile, got.Mobile)
		s.Equal(in.ReferredBy, got.ReferredBy)
		s.Equal("c1", got.Fields["FullName"])
		s.True(in.CreatedAt.Equal(got.CreatedAt))
	})

	s.Run("missing record is ErrNotFound", func() {
		_, err := newStore().Get(ctx, domain.CollectionCustomers, "nope")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = newStore().FindByMobile(ctx, domain.CollectionCustomers, "9000000001")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("mobile is unique per collection", func() {
		st := newStore()
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionCustomers, "c1", "9000000001", "", t0)))
		err := st.Create(ctx, newTestRecord(domain.CollectionCustomers, "c2", "9000000001", "", t0))
		s.ErrorIs(err, sentinel.ErrConflict)
		s.NoError(st.Create(ctx, newTestRecord(domain.CollectionInvestors, "i1", "9000000001", "", t0)))
	})

	s.Run("records without mobile never conflict", func() {
		st := newStore()
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionProperties, "p1", "", "", t0)))
		s.NoError(st.Create(ctx, newTestRecord(domain.CollectionProperties, "p2", "", "", t0)))
	})

	s.Run("list is oldest first and filters by referrer", func() {
		st := newStore()
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionAgents, "a2", "9000000002", "040401", t0.Add(time.Minute))))
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionAgents, "a1", "9000000001", "9000000009", t0)))
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionAgents, "a3", "9000000003", "161605", t0.Add(2*time.Minute))))

		all, err := st.List(ctx, domain.CollectionAgents, ListFilter{})
		s.Require().NoError(err)
		s.Equal([]string{"a1", "a2", "a3"}, recordIDs(all))

		mine, err := st.List(ctx, domain.CollectionAgents, ListFilter{ReferredBy: []string{"040401", "9000000009"}})
		s.Require().NoError(err)
		s.Equal([]string{"a1", "a2"}, recordIDs(mine))

		none, err := st.List(ctx, domain.CollectionAgents, ListFilter{ReferredBy: []string{""}})
		s.Require().NoError(err)
		s.Empty(none)
	})

	s.Run("replace updates and keeps uniqueness", func() {
		st := newStore()
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionNRIs, "n1", "9000000001", "", t0)))
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionNRIs, "n2", "9000000002", "", t0)))

		upd := newTestRecord(domain.CollectionNRIs, "n1", "9000000011", "", t0)
		upd.Fields = map[string]any{"Name": "Anil"}
		s.Require().NoError(st.Replace(ctx, upd))
		got, err := st.FindByMobile(ctx, domain.CollectionNRIs, "9000000011")
		s.Require().NoError(err)
		s.Equal(map[string]any{"Name": "Anil"}, got.Fields)

		clash := newTestRecord(domain.CollectionNRIs, "n1", "9000000002", "", t0)
		s.ErrorIs(st.Replace(ctx, clash), sentinel.ErrConflict)

		s.ErrorIs(st.Replace(ctx, newTestRecord(domain.CollectionNRIs, "zz", "", "", t0)), sentinel.ErrNotFound)
	})

	s.Run("delete removes one record", func() {
		st := newStore()
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionInvestors, "i1", "9000000001", "", t0)))
		s.Require().NoError(st.Create(ctx, newTestRecord(domain.CollectionInvestors, "i2", "9000000002", "", t0)))

		s.Require().NoError(st.Delete(ctx, domain.CollectionInvestors, "i1"))
		s.ErrorIs(st.Delete(ctx, domain.CollectionInvestors, "i1"), sentinel.ErrNotFound)

		left, err := st.List(ctx, domain.CollectionInvestors, ListFilter{})
		s.Require().NoError(err)
		s.Equal([]string{"i2"}, recordIDs(left))
	})
}

func recordIDs(recs []*Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

var testTime = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
