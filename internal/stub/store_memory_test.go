package stub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"realtyref/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestContract() {
	runRecordStoreContract(&s.Suite, func() RecordStore { return NewInMemoryStore() })
}

func (s *InMemoryStoreSuite) TestReturnsCopies() {
	ctx := context.Background()
	st := NewInMemoryStore()
	rec := newTestRecord(domain.CollectionCustomers, "c1", "9000000001", "", testTime)
	s.Require().NoError(st.Create(ctx, rec))

	rec.Fields["FullName"] = "changed after create"
	got, err := st.Get(ctx, domain.CollectionCustomers, "c1")
	s.Require().NoError(err)
	s.Equal("c1", got.Fields["FullName"])

	got.Fields["FullName"] = "changed after get"
	again, err := st.Get(ctx, domain.CollectionCustomers, "c1")
	s.Require().NoError(err)
	s.Equal("c1", again.Fields["FullName"])
}
