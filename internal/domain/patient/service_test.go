package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockPatientRepo struct {
	store map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{store: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	return m.store[id], nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		if !activeOnly || p.Active {
			r = append(r, p)
		}
	}
	return r, len(r), nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockPatientRepo())

	p := &Patient{FirstName: "Maria", LastName: "Gomez"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if !p.Active {
		t.Error("new patients should be active")
	}
	if p.Timezone != "UTC" {
		t.Errorf("expected UTC default timezone, got %s", p.Timezone)
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newMockPatientRepo())

	if err := svc.CreatePatient(context.Background(), &Patient{FirstName: "Maria"}); err == nil {
		t.Error("expected error for missing last name")
	}
	p := &Patient{FirstName: "Maria", LastName: "Gomez", Timezone: "Mars/Olympus"}
	if err := svc.CreatePatient(context.Background(), p); err == nil {
		t.Error("expected error for bogus timezone")
	}
}

func TestDeactivatePatient(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)

	p := &Patient{FirstName: "Maria", LastName: "Gomez"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeactivatePatient(context.Background(), p.ID); err != nil {
		t.Fatalf("DeactivatePatient: %v", err)
	}
	if repo.store[p.ID].Active {
		t.Error("patient should be inactive")
	}

	if err := svc.DeactivatePatient(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown patient")
	}
}

func TestListPatients_ActiveFilter(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)

	a := &Patient{FirstName: "Ana", LastName: "Silva"}
	b := &Patient{FirstName: "Ben", LastName: "Okafor"}
	_ = svc.CreatePatient(context.Background(), a)
	_ = svc.CreatePatient(context.Background(), b)
	_ = svc.DeactivatePatient(context.Background(), b.ID)

	active, total, err := svc.ListPatients(context.Background(), true, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(active) != 1 || active[0].ID != a.ID {
		t.Errorf("expected only the active patient, got %d", total)
	}
}
