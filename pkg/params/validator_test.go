package params

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"mercator-hq/querygate/pkg/odata"
	"mercator-hq/querygate/pkg/schema"
)

func testSchema() *schema.Schema {
	return schema.MustNew(map[string]schema.Type{
		"title":      schema.TypeString,
		"price":      schema.TypeNumber,
		"created_at": schema.TypeDateTime,
	})
}

func newTestValidator(opts ...Option) *Validator {
	return New(testSchema(), DefaultLimits(), opts...)
}

func TestTop(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
		errMsg  string
	}{
		{name: "lower bound", value: "1", want: 1},
		{name: "upper bound", value: "1000", want: 1000},
		{name: "leading zeros", value: "007", want: 7},
		{name: "zero", value: "0", wantErr: true, errMsg: "between 1 and 1000"},
		{name: "negative", value: "-5", wantErr: true, errMsg: "between 1 and 1000"},
		{name: "above max", value: "1001", wantErr: true, errMsg: "between 1 and 1000"},
		{name: "fraction", value: "1.5", wantErr: true, errMsg: "must be an integer"},
		{name: "exponent", value: "1e3", wantErr: true, errMsg: "must be an integer"},
		{name: "plus sign", value: "+5", wantErr: true, errMsg: "must be an integer"},
		{name: "whitespace", value: " 5", wantErr: true, errMsg: "must be an integer"},
		{name: "empty", value: "", wantErr: true, errMsg: "must be an integer"},
		{name: "word", value: "ten", wantErr: true, errMsg: "must be an integer"},
		{name: "huge", value: "99999999999999999999", wantErr: true, errMsg: "integer out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Top(tt.value)
			if tt.wantErr {
				var fe *odata.FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("Top(%q) error = %v, want *odata.FormatError", tt.value, err)
				}
				if fe.Param != odata.ParamTop || fe.Value != tt.value {
					t.Errorf("FormatError = {%q, %q}, want {%q, %q}", fe.Param, fe.Value, odata.ParamTop, tt.value)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Top(%q) error = %v, want error containing %q", tt.value, err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Top(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Top(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
		errMsg  string
	}{
		{name: "zero", value: "0", want: 0},
		{name: "large", value: "1000000", want: 1000000},
		{name: "long leading zeros", value: "0000000000000000000000042", want: 42},
		{name: "negative", value: "-1", wantErr: true, errMsg: "must be >= 0"},
		{name: "negative zero", value: "-0", wantErr: true, errMsg: "must be >= 0"},
		{name: "fraction", value: "0.5", wantErr: true, errMsg: "must be an integer"},
		{name: "empty", value: "", wantErr: true, errMsg: "must be an integer"},
		{name: "lone minus", value: "-", wantErr: true, errMsg: "must be >= 0"},
		{name: "twenty digits", value: "12345678901234567890", wantErr: true, errMsg: "integer out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Skip(tt.value)
			if tt.wantErr {
				var fe *odata.FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("Skip(%q) error = %v, want *odata.FormatError", tt.value, err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Skip(%q) error = %v, want error containing %q", tt.value, err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Skip(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Skip(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		value     string
		want      []string
		wantErr   bool
		whitelist bool
	}{
		{name: "single column", value: "title", want: []string{"title"}},
		{name: "spaces around commas", value: "title, price ,created_at", want: []string{"title", "price", "created_at"}},
		{name: "duplicates dropped", value: "price,title,price", want: []string{"price", "title"}},
		{name: "undeclared column", value: "title,secret", wantErr: true, whitelist: true},
		{name: "case differs", value: "Title", wantErr: true, whitelist: true},
		{name: "star", value: "*", wantErr: true},
		{name: "leading digit", value: "1title", wantErr: true},
		{name: "trailing comma", value: "title,", wantErr: true},
		{name: "missing comma", value: "title price", wantErr: true},
		{name: "punctuation", value: "title;drop", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Select(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Select(%q) expected error, got %v", tt.value, got)
				}
				var wv *odata.WhitelistViolation
				if tt.whitelist != errors.As(err, &wv) {
					t.Errorf("Select(%q) error = %v, whitelist violation = %v", tt.value, err, !tt.whitelist)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select(%q) unexpected error: %v", tt.value, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestOrderBy(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		value     string
		want      []OrderClause
		wantErr   bool
		whitelist bool
	}{
		{
			name:  "default direction",
			value: "title",
			want:  []OrderClause{{Property: "title"}},
		},
		{
			name:  "mixed directions and case",
			value: "title DESC, price asc",
			want:  []OrderClause{{Property: "title", Descending: true}, {Property: "price"}},
		},
		{name: "undeclared property", value: "secret desc", wantErr: true, whitelist: true},
		{name: "property case differs", value: "TITLE desc", wantErr: true, whitelist: true},
		{name: "bad direction", value: "title descending", wantErr: true},
		{name: "extra words", value: "title desc, price asc nulls", wantErr: true},
		{name: "empty clause", value: "title,,price", wantErr: true},
		{name: "blank", value: "  ", wantErr: true},
		{name: "injection attempt", value: "title; drop table t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.OrderBy(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("OrderBy(%q) expected error, got %v", tt.value, got)
				}
				var wv *odata.WhitelistViolation
				if tt.whitelist != errors.As(err, &wv) {
					t.Errorf("OrderBy(%q) error = %v, whitelist violation = %v", tt.value, err, !tt.whitelist)
				}
				return
			}
			if err != nil {
				t.Fatalf("OrderBy(%q) unexpected error: %v", tt.value, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OrderBy(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestOrderClause_String(t *testing.T) {
	if got := (OrderClause{Property: "title", Descending: true}).String(); got != "title desc" {
		t.Errorf("String() = %q, want %q", got, "title desc")
	}
	if got := (OrderClause{Property: "price"}).String(); got != "price asc" {
		t.Errorf("String() = %q, want %q", got, "price asc")
	}
}

func TestLengthCapsRunFirst(t *testing.T) {
	v := New(testSchema(), Limits{MaxFilterLength: 20, MaxSelectLength: 10, MaxOrderByLength: 10})

	// Each value would otherwise fail for a different reason; the cap must win.
	long := strings.Repeat("a", 50) + ";"

	if _, err := v.Filter(long); err == nil || !strings.Contains(err.Error(), "exceeds maximum length of 20") {
		t.Errorf("Filter() error = %v, want length error", err)
	}
	if _, err := v.Select(long); err == nil || !strings.Contains(err.Error(), "exceeds maximum length of 10") {
		t.Errorf("Select() error = %v, want length error", err)
	}
	if _, err := v.OrderBy(long); err == nil || !strings.Contains(err.Error(), "exceeds maximum length of 10") {
		t.Errorf("OrderBy() error = %v, want length error", err)
	}
}

func TestOrderBy_AdversarialInputIsBounded(t *testing.T) {
	v := newTestValidator()
	// Within the cap, a long run of spaces must still be rejected promptly.
	value := "title" + strings.Repeat(" ", DefaultMaxOrderByLength-10) + "x"
	if _, err := v.OrderBy(value); err == nil {
		t.Error("OrderBy() expected error for trailing garbage")
	}
}

func TestFilter(t *testing.T) {
	v := newTestValidator()

	got, err := v.Filter("price gt 10")
	if err != nil {
		t.Fatalf("Filter() unexpected error: %v", err)
	}
	if got != "price > 10" {
		t.Errorf("Filter() = %q, want %q", got, "price > 10")
	}

	for _, empty := range []string{"", "   "} {
		var fe *odata.FormatError
		if _, err := v.Filter(empty); !errors.As(err, &fe) {
			t.Errorf("Filter(%q) error = %v, want *odata.FormatError", empty, err)
		}
	}
}

func TestFilter_InjectionRegardlessOfWhitelist(t *testing.T) {
	v := newTestValidator()
	_, err := v.Filter("title eq 'x'; DROP TABLE t; --")
	var ip *odata.InjectionPatternDetected
	if !errors.As(err, &ip) {
		t.Fatalf("Filter() error = %v, want *odata.InjectionPatternDetected", err)
	}
	if strings.Contains(err.Error(), "DROP") {
		t.Errorf("error message reflects input: %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	v := newTestValidator()

	q, err := v.Validate(map[string]string{
		"filter":  "price gt 10",
		"orderby": "title desc",
		"select":  "title,price",
		"top":     "50",
		"skip":    "0",
	})
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if q.Filter != "price > 10" {
		t.Errorf("Filter = %q, want %q", q.Filter, "price > 10")
	}
	if !reflect.DeepEqual(q.Select, []string{"title", "price"}) {
		t.Errorf("Select = %v", q.Select)
	}
	if len(q.OrderBy) != 1 || q.OrderBy[0].String() != "title desc" {
		t.Errorf("OrderBy = %v", q.OrderBy)
	}
	if q.Top == nil || *q.Top != 50 {
		t.Errorf("Top = %v, want 50", q.Top)
	}
	if q.Skip == nil || *q.Skip != 0 {
		t.Errorf("Skip = %v, want 0", q.Skip)
	}
}

func TestValidate_AbsentParamsStayEmpty(t *testing.T) {
	q, err := newTestValidator().Validate(map[string]string{"filter": "price lt 3"})
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if q.Top != nil || q.Skip != nil || q.Select != nil || q.OrderBy != nil {
		t.Errorf("Validate() synthesized defaults: %+v", q)
	}
}

func TestValidate_AllOrNothing(t *testing.T) {
	q, err := newTestValidator().Validate(map[string]string{
		"filter": "price gt 10",
		"top":    "1001",
	})
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if q != nil {
		t.Errorf("Validate() returned partial query %+v alongside error", q)
	}
}

func TestValidate_UnknownAndMiscasedParameters(t *testing.T) {
	v := newTestValidator()
	for _, name := range []string{"Filter", "FILTER", "admin", "$filter"} {
		_, err := v.Validate(map[string]string{name: "price gt 1"})
		var wv *odata.WhitelistViolation
		if !errors.As(err, &wv) {
			t.Errorf("Validate(%q) error = %v, want *odata.WhitelistViolation", name, err)
		}
	}
}

func TestValidateEncoded(t *testing.T) {
	v := newTestValidator()

	q, err := v.ValidateEncoded(map[string]string{
		"filter":  "price%20gt%2010",
		"orderby": "title%20desc",
	})
	if err != nil {
		t.Fatalf("ValidateEncoded() unexpected error: %v", err)
	}
	if q.Filter != "price > 10" {
		t.Errorf("Filter = %q, want %q", q.Filter, "price > 10")
	}

	// Percent-encoding cannot smuggle an undeclared or miscased property.
	for _, raw := range []string{"%54itle%20eq%20'x'", "s%65cret%20eq%201"} {
		_, err := v.ValidateEncoded(map[string]string{"filter": raw})
		var wv *odata.WhitelistViolation
		if !errors.As(err, &wv) {
			t.Errorf("ValidateEncoded(%q) error = %v, want *odata.WhitelistViolation", raw, err)
		}
	}

	// Encoded denylist characters are caught after decoding.
	_, err = v.ValidateEncoded(map[string]string{"filter": "price%20gt%201%3B"})
	var ip *odata.InjectionPatternDetected
	if !errors.As(err, &ip) {
		t.Errorf("ValidateEncoded() error = %v, want *odata.InjectionPatternDetected", err)
	}

	_, err = v.ValidateEncoded(map[string]string{"top": "%zz"})
	var fe *odata.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("ValidateEncoded() error = %v, want *odata.FormatError", err)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingObserver) ObserveParam(param, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, param+":"+outcome)
}

func TestValidate_Observer(t *testing.T) {
	obs := &recordingObserver{}
	v := newTestValidator(WithObserver(obs))

	_, _ = v.Validate(map[string]string{"filter": "price gt 1", "top": "0"})

	want := []string{"filter:ok", "top:format_error"}
	if !reflect.DeepEqual(obs.events, want) {
		t.Errorf("observed %v, want %v", obs.events, want)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{odata.NewFormatError("top", "x", "bad"), OutcomeFormat},
		{odata.NewWhitelistViolation("select", "column", "x", nil), OutcomeWhitelist},
		{&odata.InjectionPatternDetected{Param: "filter"}, OutcomeInjection},
		{errors.New("boom"), OutcomeOther},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestValidator_ConcurrentUse(t *testing.T) {
	v := newTestValidator()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := v.Validate(map[string]string{"filter": "price gt 1", "top": "10"}); err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
