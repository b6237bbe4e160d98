package db

import "testing"

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ? AND c = ?"

	if got := Rebind(DriverSqlite, q); got != q {
		t.Fatalf("sqlite query rewritten: %q", got)
	}
	if got, want := Rebind(DriverPostgres, q), "SELECT a FROM t WHERE b = $1 AND c = $2"; got != want {
		t.Fatalf("Rebind = %q, want %q", got, want)
	}
}

func TestOpenSqliteMemory(t *testing.T) {
	conn, err := Open(DriverSqlite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRow("SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("select 1 = %d, %v", one, err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
