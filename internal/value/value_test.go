package value

import "testing"

func TestStringDisplay(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NewNull(), "NOOB"},
		{NewBool(true), "WIN"},
		{NewBool(false), "FAIL"},
		{NewInteger(5), "5"},
		{NewFloat(3.5), "3.5"},
		{NewFloat(5.0), "5"},
		{NewString("hi"), "hi"},
		{NewFunction(&Fn{Name: "FIB"}), "<FUNKSHUN FIB>"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{NewNull(), false},
		{NewBool(true), true},
		{NewBool(false), false},
		{NewInteger(0), false},
		{NewInteger(1), true},
		{NewFloat(0), false},
		{NewString(""), false},
		{NewString("x"), true},
		{NewFunction(&Fn{}), true},
	}
	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestAddWidening(t *testing.T) {
	sum, err := NewInteger(1).Add(NewFloat(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Type != Float || sum.AsFloat != 3.5 {
		t.Errorf("got %v, want Float 3.5", sum)
	}

	sum, err = NewInteger(2).Add(NewInteger(3))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Type != Integer || sum.AsInt != 5 {
		t.Errorf("got %v, want Integer 5", sum)
	}
}

func TestAddStringConcat(t *testing.T) {
	sum, err := NewString("foo").Add(NewString("bar"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Str != "foobar" {
		t.Errorf("got %q, want foobar", sum.Str)
	}
}

func TestDivTruncatesTowardZero(t *testing.T) {
	q, err := NewInteger(-7).Div(NewInteger(2))
	if err != nil {
		t.Fatal(err)
	}
	if q.AsInt != -3 {
		t.Errorf("got %d, want -3", q.AsInt)
	}
}

func TestEqualsCrossVariant(t *testing.T) {
	eq := NewInteger(10)
	if !eq.Equals(NewFloat(10.0)) {
		t.Error("Integer(10) should equal Float(10.0)")
	}
	if NewBool(true).Equals(NewInteger(1)) {
		t.Error("Bool(true) should not equal Integer(1) (different variants)")
	}
	if NewNull().Equals(NewBool(false)) {
		t.Error("Null should not equal Bool(false)")
	}
}

func TestToNumberStrictStringCoercion(t *testing.T) {
	if _, err := NewString("nope").ToNumber(); err == nil {
		t.Error("expected error coercing non-numeric string")
	}
	n, err := NewString("42").ToNumber()
	if err != nil || n.AsInt != 42 {
		t.Errorf("got %v, %v; want Integer 42", n, err)
	}
	n, err = NewString("4.5").ToNumber()
	if err != nil || n.AsFloat != 4.5 {
		t.Errorf("got %v, %v; want Float 4.5", n, err)
	}
}
