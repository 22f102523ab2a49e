package clickhouse

import (
	"github.com/golang/mock/gomock"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

func (s *RepositorySuite) TestInsertEntriesDeduplicatesReplays() {
	entries := []model.IndexedEntry{testEntry(10, 0, "bafkone"), testEntry(10, 1, "bafktwo")}

	s.metrics.EXPECT().Observe("insert_entries", "sepolia", gomock.Nil(), gomock.Any()).Times(2)

	s.Require().NoError(s.repo.InsertEntries(s.testCtx, entries))
	s.Require().NoError(s.repo.InsertEntries(s.testCtx, entries[:1]))
	s.Equal(uint64(len(entries)), s.countRows("anchor_entries"))
}

func (s *RepositorySuite) TestMaxIndexedBlock() {
	s.metrics.EXPECT().Observe("max_indexed_block", gomock.Any(), gomock.Nil(), gomock.Any()).Times(3)
	s.metrics.EXPECT().Observe("insert_entries", "sepolia", gomock.Nil(), gomock.Any()).Times(1)

	_, ok, err := s.repo.MaxIndexedBlock(s.testCtx, "sepolia")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.repo.InsertEntries(s.testCtx, []model.IndexedEntry{
		testEntry(7, 0, "bafkone"),
		testEntry(19, 0, "bafktwo"),
	}))

	block, ok, err := s.repo.MaxIndexedBlock(s.testCtx, "sepolia")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(uint64(19), block)

	_, ok, err = s.repo.MaxIndexedBlock(s.testCtx, "mainnet")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepositorySuite) TestEntriesByContentIDOrdersByPosition() {
	later := testEntry(12, 0, "bafkdup")
	later.TransactionHash = "0x" + later.TransactionHash[4:] + "cd"
	earlier := testEntry(9, 3, "bafkdup")
	other := testEntry(9, 4, "bafkother")

	s.metrics.EXPECT().Observe("insert_entries", "sepolia", gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("entries_by_content_id", "sepolia", gomock.Nil(), gomock.Any()).Times(2)

	s.Require().NoError(s.repo.InsertEntries(s.testCtx, []model.IndexedEntry{later, other, earlier}))

	got, err := s.repo.EntriesByContentID(s.testCtx, "sepolia", "bafkdup")
	s.Require().NoError(err)
	s.Equal([]model.IndexedEntry{earlier, later}, got)

	missing, err := s.repo.EntriesByContentID(s.testCtx, "sepolia", "bafkmissing")
	s.Require().NoError(err)
	s.Empty(missing)
}
