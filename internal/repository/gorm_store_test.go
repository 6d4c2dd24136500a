package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/iliyamo/codegate-events/internal/model"
)

// dryRun is a gorm handle that renders SQL without a server. Every
// statement is recorded with its arguments inlined, and errors can be
// injected after a query or insert to stand in for the server's answer.
type dryRun struct {
	db        *gorm.DB
	sqls      []string
	queryErrs []error
	createErr error
}

func newDryRun(t *testing.T) *dryRun {
	t.Helper()
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "app:secret@tcp(127.0.0.1:3306)/codegate?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	d := &dryRun{db: db}
	cb := db.Callback()
	for _, err := range []error{
		cb.Query().After("gorm:query").Register("test:record", func(tx *gorm.DB) {
			d.record(tx)
			if len(d.queryErrs) > 0 {
				if e := d.queryErrs[0]; e != nil {
					tx.AddError(e)
				}
				d.queryErrs = d.queryErrs[1:]
			}
		}),
		cb.Row().After("gorm:row").Register("test:record", d.record),
		cb.Update().After("gorm:update").Register("test:record", d.record),
		cb.Create().After("gorm:create").Register("test:record", func(tx *gorm.DB) {
			d.record(tx)
			if d.createErr != nil {
				tx.AddError(d.createErr)
			}
		}),
	} {
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}
	}
	return d
}

func (d *dryRun) record(tx *gorm.DB) {
	if tx.Statement.SQL.Len() == 0 {
		return
	}
	d.sqls = append(d.sqls, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
}

// find returns the recorded statements that mention table.
func (d *dryRun) find(table string) []string {
	var out []string
	for _, s := range d.sqls {
		if strings.Contains(s, "`"+table+"`") {
			out = append(out, s)
		}
	}
	return out
}

func assertContains(t *testing.T, sql string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(sql, p) {
			t.Errorf("SQL lacks %q:\n%s", p, sql)
		}
	}
}

func duplicateEntry() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'idx'"}
}

func TestTranslate(t *testing.T) {
	dup := fmt.Errorf("insert: %w", duplicateEntry())
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	other := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
		conflict bool
	}{
		{name: "nil", err: nil},
		{name: "record not found", err: gorm.ErrRecordNotFound, notFound: ErrEventNotFound, want: ErrEventNotFound},
		{name: "record not found without sentinel", err: gorm.ErrRecordNotFound, want: gorm.ErrRecordNotFound},
		{name: "duplicate key", err: dup, want: dup, conflict: true},
		{name: "foreign key", err: fk, want: fk},
		{name: "other", err: other, notFound: ErrEventNotFound, want: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, tt.notFound)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("translate = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("translate = %v, want it to match %v", got, tt.want)
			}
			if errors.Is(got, ErrConflict) != tt.conflict {
				t.Errorf("conflict = %v, want %v", errors.Is(got, ErrConflict), tt.conflict)
			}
		})
	}

	var me *mysql.MySQLError
	if !errors.As(translate(dup, nil), &me) || me.Number != 1062 {
		t.Error("driver error lost after translation")
	}
}

func TestEventSearchSQL(t *testing.T) {
	d := newDryRun(t)
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	minPrice, maxPrice := 5.0, 50.0

	_, _, err := NewGormStore(d.db).Events().Search(context.Background(), EventSearch{
		Category:  model.CategoryConference,
		City:      "  Paris ",
		Search:    "Jazz",
		StartDate: &start,
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		Page:      2,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	stmts := d.find("events")
	if len(stmts) < 2 {
		t.Fatalf("recorded %d event statements, want count and select: %v", len(stmts), d.sqls)
	}
	filters := []string{
		"category = 'CONFERENCE'",
		"LOWER(city) LIKE '%paris%'",
		"(LOWER(title) LIKE '%jazz%' OR LOWER(description) LIKE '%jazz%')",
		"event_date >= '2030-01-01 00:00:00",
		"ticket_price >= 5",
		"ticket_price <= 50",
	}

	count, page := stmts[0], stmts[1]
	assertContains(t, count, append([]string{"count(*)"}, filters...)...)
	if strings.Contains(count, "LIMIT") || strings.Contains(count, "ORDER BY") {
		t.Errorf("count query is paginated:\n%s", count)
	}
	assertContains(t, page, append([]string{"ORDER BY event_date ASC", "LIMIT 10", "OFFSET 10"}, filters...)...)
	if strings.Contains(page, "status =") || strings.Contains(page, "event_date <=") {
		t.Errorf("unset filters rendered:\n%s", page)
	}
}

func TestEventSearchFirstPageHasNoOffset(t *testing.T) {
	d := newDryRun(t)
	if _, _, err := NewGormStore(d.db).Events().Search(context.Background(), EventSearch{Page: 1, Limit: 10}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	stmts := d.find("events")
	if len(stmts) < 2 {
		t.Fatalf("recorded %v", d.sqls)
	}
	assertContains(t, stmts[1], "LIMIT 10")
	if strings.Contains(stmts[1], "OFFSET") || strings.Contains(stmts[1], "WHERE") {
		t.Errorf("unfiltered first page:\n%s", stmts[1])
	}
}

func TestLockingReads(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		table string
		run   func(Store) error
	}{
		{"event", "events", func(s Store) error { _, err := s.Events().GetForUpdate(ctx, "ev-1"); return err }},
		{"ticket", "tickets", func(s Store) error { _, err := s.Tickets().GetForUpdate(ctx, "ev-1"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDryRun(t)
			if err := tt.run(NewGormStore(d.db)); err != nil {
				t.Fatalf("GetForUpdate: %v", err)
			}
			stmts := d.find(tt.table)
			if len(stmts) != 1 {
				t.Fatalf("recorded %v", d.sqls)
			}
			assertContains(t, stmts[0], "id = 'ev-1'", "FOR UPDATE")
		})
	}

	d := newDryRun(t)
	if _, err := NewGormStore(d.db).Events().GetByID(ctx, "ev-1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	for _, s := range d.sqls {
		if strings.Contains(s, "FOR UPDATE") {
			t.Errorf("plain read locks:\n%s", s)
		}
	}
}

func TestLookupMissMapsToSentinel(t *testing.T) {
	d := newDryRun(t)
	d.queryErrs = []error{gorm.ErrRecordNotFound}
	_, err := NewGormStore(d.db).Tickets().GetByCode(context.Background(), "TKT-missing")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("GetByCode error = %v, want ErrTicketNotFound", err)
	}
}

func TestIncrementAttendeesSQL(t *testing.T) {
	d := newDryRun(t)
	// RowsAffected stays 0 without a server.
	err := NewGormStore(d.db).Events().IncrementAttendees(context.Background(), "ev-1", 3)
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("IncrementAttendees error = %v, want ErrEventNotFound", err)
	}
	stmts := d.find("events")
	if len(stmts) != 1 {
		t.Fatalf("recorded %v", d.sqls)
	}
	assertContains(t, stmts[0], "UPDATE `events` SET `current_attendees`=current_attendees + 3", "id = 'ev-1'")
}

func TestStatsByEventSQL(t *testing.T) {
	d := newDryRun(t)
	// Scan needs rows from a server, so the dry run fails after building SQL.
	_, _ = NewGormStore(d.db).Tickets().StatsByEvent(context.Background(), "ev-1")

	stmts := d.find("tickets")
	if len(stmts) != 1 {
		t.Fatalf("recorded %v", d.sqls)
	}
	assertContains(t, stmts[0],
		"SELECT status, COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue",
		"event_id = 'ev-1'",
		"GROUP BY",
	)

	// The aliases must be the column names statusRow scans into.
	sch, err := schema.Parse(&statusRow{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse statusRow: %v", err)
	}
	for _, col := range []string{"status", "count", "revenue"} {
		if !slices.Contains(sch.DBNames, col) {
			t.Errorf("statusRow has no column %q (columns %v)", col, sch.DBNames)
		}
	}
}

func TestCheckInCreateDuplicateIsConflict(t *testing.T) {
	d := newDryRun(t)
	d.createErr = duplicateEntry()
	err := NewGormStore(d.db).CheckIns().Create(context.Background(), &model.CheckIn{
		Code: "TKT-1", EventID: "ev-1", TicketID: "t-1", CheckedInBy: "u-1", CheckedInAt: time.Now(),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Create error = %v, want ErrConflict", err)
	}
	if stmts := d.find("check_ins"); len(stmts) != 1 || !strings.HasPrefix(stmts[0], "INSERT INTO `check_ins`") {
		t.Errorf("recorded %v", d.sqls)
	}
}

func TestUserFirstOrCreateRereadsWinnerWithLock(t *testing.T) {
	d := newDryRun(t)
	d.queryErrs = []error{gorm.ErrRecordNotFound}
	d.createErr = duplicateEntry()

	_, err := NewGormStore(d.db).Users().FirstOrCreate(context.Background(), &model.User{Email: "ada@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("FirstOrCreate: %v", err)
	}

	stmts := d.find("users")
	if len(stmts) != 3 {
		t.Fatalf("recorded %d user statements, want lookup, insert, re-read: %v", len(stmts), stmts)
	}
	lookup, insert, reread := stmts[0], stmts[1], stmts[2]
	assertContains(t, lookup, "email = 'ada@example.com'")
	if strings.Contains(lookup, "FOR SHARE") {
		t.Errorf("first lookup locks:\n%s", lookup)
	}
	if !strings.HasPrefix(insert, "INSERT INTO `users`") {
		t.Errorf("second statement is not the insert:\n%s", insert)
	}
	assertContains(t, reread, "email = 'ada@example.com'", "FOR SHARE")
}

func TestUserFirstOrCreateReturnsExisting(t *testing.T) {
	d := newDryRun(t)
	if _, err := NewGormStore(d.db).Users().FirstOrCreate(context.Background(), &model.User{Email: "ada@example.com"}); err != nil {
		t.Fatalf("FirstOrCreate: %v", err)
	}
	for _, s := range d.sqls {
		if strings.HasPrefix(s, "INSERT") {
			t.Errorf("existing user was inserted again:\n%s", s)
		}
	}
}
