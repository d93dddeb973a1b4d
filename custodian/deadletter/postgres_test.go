package deadletter_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/custodian/deadletter"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

func custodianCid(s string) ledger.ContractID { return ledger.ContractID(s) }

func newMockSink(t *testing.T) (*deadletter.PostgresSink, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
	})
	return deadletter.NewPostgresSink(db), mock
}

func TestPostgresSinkEnsureSchema(t *testing.T) {
	sink, mock := newMockSink(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS custodian_dead_letters")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, sink.EnsureSchema(t.Context()))
}

func TestPostgresSinkWrite(t *testing.T) {
	sink, mock := newMockSink(t)
	dl := sampleLetter("c1")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO custodian_dead_letters")).
		WithArgs(sqlmock.AnyArg(), "c1", string(dl.TemplateID), "IssuerMint", dl.Reason, dl.Attempts,
			sqlmock.AnyArg(), sqlmock.AnyArg(), dl.At).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, sink.Write(t.Context(), dl))
}

func TestPostgresSinkMissingTable(t *testing.T) {
	sink, mock := newMockSink(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO custodian_dead_letters")).
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "custodian_dead_letters" does not exist`})

	err := sink.Write(t.Context(), sampleLetter("c1"))
	require.ErrorContains(t, err, "EnsureSchema")
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
}

func TestPostgresSinkRecent(t *testing.T) {
	sink, mock := newMockSink(t)
	dl := sampleLetter("c1")
	rows := sqlmock.NewRows([]string{"contract_id", "template_id", "kind", "reason", "attempts", "last_error", "payload", "created_at"}).
		AddRow("c1", string(dl.TemplateID), dl.Kind, dl.Reason, dl.Attempts, dl.LastError, []byte(dl.Payload), dl.At).
		AddRow("c2", string(dl.TemplateID), dl.Kind, "approval_rejected", 1, nil, nil, dl.At)
	mock.ExpectQuery(regexp.QuoteMeta("FROM custodian_dead_letters")).WithArgs(10).WillReturnRows(rows)

	letters, err := sink.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, letters, 2)
	require.Equal(t, dl, letters[0])
	require.Equal(t, custodianCid("c2"), letters[1].ContractID)
	require.Empty(t, letters[1].LastError)
}
