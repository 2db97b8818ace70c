package silo

import (
	"errors"
	"testing"
)

func TestCompileAccessSet(t *testing.T) {
	tests := []struct {
		name     string
		accesses []Access
		wantErr  bool
	}{
		{
			name:     "distinct stores",
			accesses: []Access{Writes[Position](), Writes[Velocity]()},
		},
		{
			name:     "read read same store",
			accesses: []Access{Reads[Position](), Reads[Position]()},
		},
		{
			name:     "write write same store",
			accesses: []Access{Writes[Position](), Writes[Position]()},
			wantErr:  true,
		},
		{
			name:     "write after read",
			accesses: []Access{Reads[Position](), Writes[Position]()},
			wantErr:  true,
		},
		{
			name:     "read after write",
			accesses: []Access{Writes[Position](), Reads[Position]()},
			wantErr:  true,
		},
		{
			name:     "entities write twice",
			accesses: []Access{WritesEntities(), ReadsEntities()},
			wantErr:  true,
		},
		{
			name:     "store and resource of one type",
			accesses: []Access{Writes[Position](), WritesResource[Position]()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Factory.NewAccessSet(tt.accesses...)
			if tt.wantErr {
				if !errors.Is(err, errSelfConflict) {
					t.Fatalf("Expected a self-conflict, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to compile: %v", err)
			}
		})
	}
}

func TestAccessSetDisjoint(t *testing.T) {
	compile := func(accesses ...Access) AccessSet {
		t.Helper()
		set, err := Factory.NewAccessSet(accesses...)
		if err != nil {
			t.Fatalf("Failed to compile: %v", err)
		}
		return set
	}

	tests := []struct {
		name string
		a, b AccessSet
		want bool
	}{
		{
			name: "independent stores",
			a:    compile(Writes[Position]()),
			b:    compile(Writes[Velocity]()),
			want: true,
		},
		{
			name: "shared reads",
			a:    compile(Reads[Position]()),
			b:    compile(Reads[Position]()),
			want: true,
		},
		{
			name: "write against read",
			a:    compile(Writes[Position]()),
			b:    compile(Reads[Position]()),
			want: false,
		},
		{
			name: "read against write",
			a:    compile(Reads[Position]()),
			b:    compile(Writes[Position]()),
			want: false,
		},
		{
			name: "write against write",
			a:    compile(Writes[Health]()),
			b:    compile(Writes[Health]()),
			want: false,
		},
		{
			name: "store versus same-type resource",
			a:    compile(Writes[Position]()),
			b:    compile(WritesResource[Position]()),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.DisjointWith(tt.b); got != tt.want {
				t.Errorf("DisjointWith() = %v, want %v", got, tt.want)
			}
			if got := tt.b.DisjointWith(tt.a); got != tt.want {
				t.Errorf("DisjointWith() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameGrants(t *testing.T) {
	w := Factory.NewWorld()
	e := w.Create()
	StoreFor[Position](w).Insert(e, Position{X: 9})

	sys := NewSystem(func(f *Frame) error { return nil },
		Reads[Position](), ReadsEntities())
	f, err := resolveFrame(w, sys)
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}

	if !f.Entities().Alive(e) {
		t.Error("Frame allocator does not track the world's entities")
	}
	p, ok := StoreOf[Position](f).Get(e)
	if !ok || p.X != 9 {
		t.Errorf("Frame store returned %v, %v; want X = 9", p, ok)
	}
}

func TestFrameUndeclaredAccessPanics(t *testing.T) {
	w := Factory.NewWorld()
	sys := NewSystem(func(f *Frame) error { return nil }, Reads[Position]())
	f, err := resolveFrame(w, sys)
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}

	tests := []struct {
		name  string
		fetch func()
	}{
		{"undeclared store", func() { StoreOf[Velocity](f) }},
		{"undeclared resource", func() { ResourceOf[viewport](f) }},
		{"undeclared entities", func() { f.Entities() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("Expected a panic")
				}
				if _, ok := r.(UndeclaredAccessError); !ok {
					t.Fatalf("Panicked with %v, want UndeclaredAccessError", r)
				}
			}()
			tt.fetch()
		})
	}
}

func TestResolveGrantsResourcePointer(t *testing.T) {
	w := Factory.NewWorld()
	AddResource(w, &viewport{W: 80, H: 24})

	sys := NewSystem(func(f *Frame) error { return nil }, WritesResource[viewport]())
	f, err := resolveFrame(w, sys)
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}

	ResourceOf[viewport](f).W = 120

	vp, ok := GetResource[viewport](w)
	if !ok || vp.W != 120 {
		t.Errorf("Resource = %+v, %v; want W = 120", vp, ok)
	}
}

func TestAccessString(t *testing.T) {
	tests := []struct {
		access Access
		want   string
	}{
		{Reads[Position](), "reads store silo.Position"},
		{Writes[Velocity](), "writes store silo.Velocity"},
		{WritesEntities(), "writes entities"},
	}

	for _, tt := range tests {
		if got := tt.access.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
