package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"myfinance/internal/config"
	"myfinance/models"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testGTID = "3e11fa47-71ca-11e1-9e33-c80aa9429562:1-5"

func newTestConsumer(t *testing.T) (*Consumer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "last_gtid.txt")
	return NewConsumer(config.BinlogConfig{Schema: "myfinance", CheckpointFile: path}, zap.NewNop()), path
}

func TestCheckpointRoundTrip(t *testing.T) {
	cp := NewCheckpoint(filepath.Join(t.TempDir(), "gtid"))
	got, err := cp.Load()
	if err != nil || got != "" {
		t.Fatalf("fresh Load=%q err=%v", got, err)
	}
	if err := cp.Save(testGTID); err != nil {
		t.Fatal(err)
	}
	if got, _ = cp.Load(); got != testGTID {
		t.Fatalf("Load=%q want %q", got, testGTID)
	}
}

func TestDispatchCheckpointsOnCommit(t *testing.T) {
	c, path := newTestConsumer(t)
	gset, err := gomysql.ParseGTIDSet(gomysql.MySQLFlavor, testGTID)
	if err != nil {
		t.Fatal(err)
	}
	ev := &replication.BinlogEvent{
		Header: &replication.EventHeader{EventType: replication.XID_EVENT},
		Event:  &replication.XIDEvent{XID: 1, GSet: gset},
	}
	if err := c.dispatch(ev, func(models.LedgerEvent) {}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.EqualFold(strings.TrimSpace(string(b)), testGTID) {
		t.Fatalf("checkpoint=%q", b)
	}
}

func TestDispatchFiltersSchema(t *testing.T) {
	c, _ := newTestConsumer(t)
	row := []interface{}{int64(1), "U1", int64(1), decimal.NewFromInt(1), nil, nil, nil, nil}
	var got []models.LedgerEvent
	collect := func(ev models.LedgerEvent) { got = append(got, ev) }

	other := &replication.RowsEvent{
		Table: &replication.TableMapEvent{Schema: []byte("elsewhere"), Table: []byte("transactions")},
		Rows:  [][]interface{}{row},
	}
	ours := rowsEvent("transactions", row)
	for _, e := range []*replication.RowsEvent{other, ours} {
		ev := &replication.BinlogEvent{Header: &replication.EventHeader{EventType: replication.DELETE_ROWS_EVENTv2}, Event: e}
		if err := c.dispatch(ev, collect); err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != 1 || got[0].Schema != "myfinance" || got[0].Action != models.ActionDelete {
		t.Fatalf("got=%+v", got)
	}
}

func TestLogHandlerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handle := LogHandler(zap.New(core))

	tx := &models.Transaction{TransactionID: 1, UserID: "U1", BankID: 1, Amount: decimal.NewFromInt(5)}
	handle(models.LedgerEvent{Action: models.ActionInsert, Schema: "myfinance", Table: "transactions", Transaction: tx})
	handle(models.LedgerEvent{Action: models.ActionDelete, Schema: "myfinance", Table: "transactions", Transaction: tx})

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("entries=%d want 2", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("levels=%v,%v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["action"] != "DELETE" {
		t.Fatalf("fields=%v", entries[1].ContextMap())
	}
}
