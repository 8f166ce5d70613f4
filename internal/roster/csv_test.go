package roster

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	mu       sync.Mutex
	students []Student
}

func (f *fakeStore) Insert(_ context.Context, st Student) (Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st.ID = "id-" + st.Code
	f.students = append(f.students, st)
	return st, nil
}

func (f *fakeStore) Update(_ context.Context, teacherID, id, name, class, section string) (Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, st := range f.students {
		if st.ID == id && st.TeacherID == teacherID {
			f.students[i].Name = name
			f.students[i].Class = class
			f.students[i].Section = section
			return f.students[i], nil
		}
	}
	return Student{}, ErrNotFound
}

func (f *fakeStore) List(_ context.Context, teacherID string) ([]Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Student
	for _, st := range f.students {
		if st.TeacherID == teacherID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, teacherID, id string) (Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.students {
		if st.ID == id && st.TeacherID == teacherID {
			return st, nil
		}
	}
	return Student{}, ErrNotFound
}

func (f *fakeStore) Codes(_ context.Context, teacherID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, st := range f.students {
		if st.TeacherID == teacherID {
			out = append(out, st.Code)
		}
	}
	return out, nil
}

func (f *fakeStore) SetQRCodeURL(_ context.Context, code, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, st := range f.students {
		if st.Code == code {
			f.students[i].QRCodeURL = url
		}
	}
	return nil
}

func TestImportCSV(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	// header order and casing should not matter
	input := strings.Join([]string{
		"Section,NAME,Class",
		"A,Aarav,10",
		"InvalidSection,Binita,10",
		"B,Chandra,9",
	}, "\n")

	res, err := svc.ImportCSV(context.Background(), "t-1", strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, res.Imported, 2)
	assert.Len(t, res.Errors, 1)

	// the bad row reports its line and reason, the batch continues
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Message, "invalid section")

	assert.Equal(t, "Aarav", res.Imported[0].Name)
	assert.Equal(t, "Chandra", res.Imported[1].Name)
	for _, st := range res.Imported {
		assert.Equal(t, "t-1", st.TeacherID)
		assert.Len(t, st.Code, CodeLength)
	}
}

func TestImportCSVMissingColumn(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	_, err := svc.ImportCSV(context.Background(), "t-1", strings.NewReader("name,class\nAarav,10\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "section")
}

func TestImportCSVBlankFields(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	input := "name,class,section\n,10,A\nAarav,,A\n"
	res, err := svc.ImportCSV(context.Background(), "t-1", strings.NewReader(input))
	assert.NoError(t, err)
	assert.Empty(t, res.Imported)
	assert.Len(t, res.Errors, 2)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "t-1", "", "10", "A")
	assert.Error(t, err)
	_, err = svc.Create(ctx, "t-1", "Aarav", "", "A")
	assert.Error(t, err)
	_, err = svc.Create(ctx, "t-1", "Aarav", "10", "E")
	assert.Error(t, err)

	st, err := svc.Create(ctx, "t-1", " Aarav ", "10", "A")
	assert.NoError(t, err)
	assert.Equal(t, "Aarav", st.Name)
	assert.Len(t, st.Code, CodeLength)
}
