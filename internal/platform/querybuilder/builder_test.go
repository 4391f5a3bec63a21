package querybuilder

import "testing"

func TestSelectWithRangeConditions(t *testing.T) {
	query, args, err := Select("frame_id", "payload").
		From("tracking_frames").
		Where(
			Eq("match_id", "mtc_1"),
			Gte("frame_id", int64(100)),
			Lte("frame_id", int64(200)),
		).
		OrderBy("frame_id").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT frame_id, payload FROM tracking_frames WHERE match_id = $1 AND frame_id >= $2 AND frame_id <= $3 ORDER BY frame_id LIMIT 50"
	if query != want {
		t.Fatalf("unexpected query:\ngot  %s\nwant %s", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertWithConflictSuffix(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("public_id", "provider").
		Values("mtc_1", "metrica").
		Suffix("ON CONFLICT (public_id) DO UPDATE SET provider = EXCLUDED.provider").
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "INSERT INTO matches (public_id, provider) VALUES ($1, $2) ON CONFLICT (public_id) DO UPDATE SET provider = EXCLUDED.provider"
	if query != want {
		t.Fatalf("unexpected query:\ngot  %s\nwant %s", query, want)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertRowArityMismatch(t *testing.T) {
	_, _, err := InsertInto("matches").
		Columns("a", "b").
		Values("only-one").
		ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestDeleteRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("match_events").ToSQL(); err == nil {
		t.Fatal("expected error for unconditioned delete")
	}

	query, args, err := DeleteFrom("match_events").
		Where(Eq("match_id", "mtc_1")).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "DELETE FROM match_events WHERE match_id = $1" || len(args) != 1 {
		t.Fatalf("unexpected delete: %s %v", query, args)
	}
}

func TestInEmptyValuesNeverMatch(t *testing.T) {
	query, args, err := Select("*").
		From("match_events").
		Where(In("kind", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "SELECT * FROM match_events WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query: %s %v", query, args)
	}
}

func TestExprPlaceholderRewrite(t *testing.T) {
	query, args, err := Select("*").
		From("match_events").
		Where(
			Eq("match_id", "mtc_1"),
			Expr("(kind = ? OR kind = ?)", "pass", "shot"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT * FROM match_events WHERE match_id = $1 AND (kind = $2 OR kind = $3)"
	if query != want {
		t.Fatalf("unexpected query:\ngot  %s\nwant %s", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %v", args)
	}
}
