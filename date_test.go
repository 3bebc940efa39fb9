package papertrade

import "testing"

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2026-08-21", want: NewDate(2026, 8, 21)},
		{in: "2026-8-3", want: NewDate(2026, 8, 3)},
		{in: "", wantErr: true},
		{in: "21/08/2026", wantErr: true},
		{in: "2026-13-01", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseDate(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDate_Ordering(t *testing.T) {
	a := MustParse("2026-08-20")
	b := MustParse("2026-08-21")
	if !a.Before(b) {
		t.Errorf("%s should be before %s", a, b)
	}
	if !b.After(a) {
		t.Errorf("%s should be after %s", b, a)
	}
	if a.After(a) || a.Before(a) {
		t.Errorf("%s should not order against itself", a)
	}
}

func TestDate_PendingSentinel(t *testing.T) {
	var pending Date
	if !pending.IsZero() {
		t.Fatal("zero date should be the pending sentinel")
	}
	if got := pending.String(); got != "PENDING" {
		t.Errorf("String() = %q, want PENDING", got)
	}
	finalized := MustParse("2026-08-21")
	if finalized.IsZero() {
		t.Error("a real date should not be zero")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		d    Date
		json string
	}{
		{name: "finalized", d: MustParse("2026-08-21"), json: `"2026-08-21"`},
		{name: "pending", d: Date{}, json: `""`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.d.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			if string(b) != tc.json {
				t.Errorf("MarshalJSON = %s, want %s", b, tc.json)
			}
			var back Date
			if err := back.UnmarshalJSON(b); err != nil {
				t.Fatalf("UnmarshalJSON: %v", err)
			}
			if back != tc.d {
				t.Errorf("round trip = %v, want %v", back, tc.d)
			}
		})
	}
}

func TestDate_Add(t *testing.T) {
	got := MustParse("2026-08-31").Add(1)
	want := MustParse("2026-09-01")
	if got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}
