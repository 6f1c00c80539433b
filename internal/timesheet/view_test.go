package timesheet_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/model"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

// fakeService is an in-memory board.
type fakeService struct {
	list       model.RecordList
	addResult  model.RecordList
	addErr     error
	deleteErr  error
	approveErr error

	added    []model.NewRecord
	deleted  []int64
	approved map[int64]bool
}

func (f *fakeService) List(ctx context.Context) (model.RecordList, error) {
	return f.list, nil
}

func (f *fakeService) Add(ctx context.Context, rec model.NewRecord) (model.RecordList, error) {
	f.added = append(f.added, rec)
	if f.addErr != nil {
		return model.RecordList{}, f.addErr
	}
	return f.addResult, nil
}

func (f *fakeService) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeService) SetApproved(ctx context.Context, id int64, approved bool) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	if f.approved == nil {
		f.approved = map[int64]bool{}
	}
	f.approved[id] = approved
	return nil
}

func sampleList() model.RecordList {
	return model.RecordList{
		Type: "records",
		Records: []model.Record{
			{ID: 1, Start: "2026-02-23 09:00", End: "2026-02-23 10:30", Week: "08", TaskTypeDesc: "Tutorial", Notes: "group A", Approved: true},
			{ID: 2, Start: "2026-02-24 14:00", End: "2026-02-24 15:00", Week: "08", TaskTypeDesc: "Grading", Notes: "sheet 3"},
			{ID: 3, Start: "2026-03-02 10:00", End: "2026-03-02 12:00", Week: "09", TaskTypeDesc: "Tutorial", Notes: ""},
		},
		Aggregates: map[string]model.Hours{"08": "2:30", "09": "2:00"},
	}
}

func texts(rows []timesheet.Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, strings.Join(r.Cells, "|")+"|"+r.Action)
	}
	return out
}

func TestRenderInsertsWeekSummaries(t *testing.T) {
	rows := timesheet.Render(sampleList(), timesheet.ModeTutor, timesheet.DefaultTemplate)

	wantKinds := []timesheet.RowKind{
		timesheet.RowSummary, timesheet.RowRecord, timesheet.RowRecord,
		timesheet.RowSummary, timesheet.RowRecord,
	}
	if len(rows) != len(wantKinds) {
		t.Fatalf("rows = %d, want %d: %v", len(rows), len(wantKinds), texts(rows))
	}
	for i, k := range wantKinds {
		if rows[i].Kind != k {
			t.Errorf("row %d kind = %d, want %d", i, rows[i].Kind, k)
		}
	}
	if got, want := rows[0].Text(), "Sum for week 08: 2:30h"; got != want {
		t.Errorf("first summary = %q, want %q", got, want)
	}
	if got, want := rows[3].Text(), "Sum for week 09: 2:00h"; got != want {
		t.Errorf("second summary = %q, want %q", got, want)
	}
	if got, want := rows[1].Cells, []string{"2026-02-23", "09:00", "10:30", "Tutorial", "group A"}; !slices.Equal(got, want) {
		t.Errorf("record cells = %v, want %v", got, want)
	}
}

func TestRenderWeekZeroStillGetsSummary(t *testing.T) {
	list := model.RecordList{
		Records:    []model.Record{{ID: 1, Start: "2026-01-01 09:00", End: "2026-01-01 10:00", Week: "00"}},
		Aggregates: map[string]model.Hours{"00": "1:00"},
	}
	rows := timesheet.Render(list, timesheet.ModeTutor, timesheet.DefaultTemplate)
	if len(rows) != 2 || rows[0].Kind != timesheet.RowSummary {
		t.Fatalf("rows = %v, want summary then record", texts(rows))
	}
}

func TestRenderMissingAggregate(t *testing.T) {
	list := model.RecordList{Records: []model.Record{{ID: 1, Week: "12"}}}
	rows := timesheet.Render(list, timesheet.ModeTutor, timesheet.DefaultTemplate)
	if got, want := rows[0].Text(), "Sum for week 12: ?h"; got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	first := texts(timesheet.Render(sampleList(), timesheet.ModeAdmin, timesheet.DefaultTemplate))
	second := texts(timesheet.Render(sampleList(), timesheet.ModeAdmin, timesheet.DefaultTemplate))
	if !slices.Equal(first, second) {
		t.Errorf("renders differ:\n%v\n%v", first, second)
	}
}

func TestActionLabels(t *testing.T) {
	tests := []struct {
		mode     timesheet.Mode
		approved bool
		want     string
	}{
		{timesheet.ModeTutor, false, "Delete"},
		{timesheet.ModeTutor, true, "Already approved - can't delete"},
		{timesheet.ModeAdmin, false, "Approve"},
		{timesheet.ModeAdmin, true, "Approved"},
	}
	for _, tt := range tests {
		if got := timesheet.ActionLabel(tt.mode, tt.approved); got != tt.want {
			t.Errorf("ActionLabel(%s, %v) = %q, want %q", tt.mode, tt.approved, got, tt.want)
		}
	}
}

func TestCustomTemplate(t *testing.T) {
	tmpl := timesheet.Template{Headers: []string{"ID", "Week"}, Columns: []string{model.FieldID, model.FieldWeek}}
	rows := timesheet.Render(sampleList(), timesheet.ModeTutor, tmpl)
	if got, want := rows[1].Cells, []string{"1", "08"}; !slices.Equal(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
	if h := timesheet.HeaderRow(tmpl); !h.HasHeaderCells() || h.CellText(1) != "Week" {
		t.Errorf("HeaderRow = %+v", h)
	}
}

func TestLoad(t *testing.T) {
	svc := &fakeService{list: sampleList()}
	v := timesheet.NewView(svc, timesheet.ModeTutor)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(v.Rows()); got != 5 {
		t.Errorf("rows = %d, want 5", got)
	}
	if v.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", v.Generation())
	}
}

func TestAddSuccessReplacesRowsAndClearsBanner(t *testing.T) {
	svc := &fakeService{list: sampleList(), addErr: &api.ServerError{Message: "X"}}
	v := timesheet.NewView(svc, timesheet.ModeTutor)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}
	_ = v.Add(ctx, timesheet.Draft{})
	if v.Banner() == "" {
		t.Fatal("expected banner after failed add")
	}

	svc.addErr = nil
	svc.addResult = model.RecordList{
		Records:    []model.Record{{ID: 9, Start: "2026-03-03 08:00", End: "2026-03-03 09:00", Week: "09"}},
		Aggregates: map[string]model.Hours{"09": "1:00"},
	}
	draft := timesheet.Draft{Date: "2026-03-03", Start: "08:00", End: "09:00", Notes: "prep", TaskTypeID: "4"}
	if err := v.Add(ctx, draft); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if v.Banner() != "" {
		t.Errorf("Banner = %q, want empty", v.Banner())
	}
	rows := v.Rows()
	if len(rows) != 2 || rows[1].ID != 9 {
		t.Errorf("rows = %v, want summary + record 9", texts(rows))
	}
	last := svc.added[len(svc.added)-1]
	want := model.NewRecord{Start: "2026-03-03 08:00", End: "2026-03-03 09:00", Notes: "prep", TaskTypeID: "4"}
	if last != want {
		t.Errorf("posted %+v, want %+v", last, want)
	}
}

func TestAddFailureKeepsRows(t *testing.T) {
	svc := &fakeService{list: sampleList(), addErr: &api.ServerError{Message: "X"}}
	v := timesheet.NewView(svc, timesheet.ModeTutor)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}
	before := texts(v.Rows())

	err := v.Add(ctx, timesheet.Draft{Date: "2026-03-03", Start: "08:00", End: "07:00"})
	var se *api.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("Add error = %v, want *api.ServerError", err)
	}
	if got, want := v.Banner(), "Error: X"; got != want {
		t.Errorf("Banner = %q, want %q", got, want)
	}
	if after := texts(v.Rows()); !slices.Equal(before, after) {
		t.Errorf("rows changed:\n%v\n%v", before, after)
	}
	if v.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", v.Generation())
	}
}

func TestAddNotInAdminMode(t *testing.T) {
	v := timesheet.NewView(&fakeService{}, timesheet.ModeAdmin)
	if err := v.Add(context.Background(), timesheet.Draft{}); !errors.Is(err, timesheet.ErrWrongMode) {
		t.Errorf("Add in admin mode = %v, want ErrWrongMode", err)
	}
}

func TestDelete(t *testing.T) {
	svc := &fakeService{list: sampleList()}
	v := timesheet.NewView(svc, timesheet.ModeTutor)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if err := v.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := v.Row(2); ok {
		t.Error("row 2 still shown after Delete")
	}
	if v.Generation() != 1 {
		t.Errorf("Delete re-rendered: Generation = %d", v.Generation())
	}

	if err := v.Delete(ctx, 1); !errors.Is(err, timesheet.ErrApproved) {
		t.Errorf("Delete approved = %v, want ErrApproved", err)
	}
	if err := v.Delete(ctx, 99); !errors.Is(err, timesheet.ErrNotFound) {
		t.Errorf("Delete unknown = %v, want ErrNotFound", err)
	}
	if !slices.Equal(svc.deleted, []int64{2}) {
		t.Errorf("deleted = %v, want [2]", svc.deleted)
	}
}

func TestDeleteRemovesRowOnErrorStatus(t *testing.T) {
	svc := &fakeService{list: sampleList(), deleteErr: &api.StatusError{Code: http.StatusNotFound}}
	v := timesheet.NewView(svc, timesheet.ModeTutor)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := v.Delete(ctx, 3); err == nil {
		t.Fatal("expected error status to be reported")
	}
	if _, ok := v.Row(3); ok {
		t.Error("row 3 still shown after completed delete")
	}
}

func TestDeleteKeepsRowOnTransportError(t *testing.T) {
	svc := &fakeService{list: sampleList(), deleteErr: errors.New("connection refused")}
	v := timesheet.NewView(svc, timesheet.ModeTutor)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := v.Delete(ctx, 3); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := v.Row(3); !ok {
		t.Error("row 3 removed although the request never completed")
	}
}

func TestApprove(t *testing.T) {
	svc := &fakeService{list: sampleList()}
	v := timesheet.NewView(svc, timesheet.ModeAdmin)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if err := v.Approve(ctx, 2); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	row, _ := v.Row(2)
	if !row.Approved || row.Action != timesheet.LabelApproved || row.ActionEnabled {
		t.Errorf("row after approve = %+v", row)
	}
	if !svc.approved[2] {
		t.Error("board was not asked to approve record 2")
	}

	if err := v.Approve(ctx, 2); !errors.Is(err, timesheet.ErrAlreadyApproved) {
		t.Errorf("second Approve = %v, want ErrAlreadyApproved", err)
	}
	if len(svc.approved) != 1 {
		t.Errorf("approve requests = %d, want 1", len(svc.approved))
	}
}

func TestApproveFailureLeavesState(t *testing.T) {
	svc := &fakeService{list: sampleList(), approveErr: &api.StatusError{Code: http.StatusInternalServerError}}
	v := timesheet.NewView(svc, timesheet.ModeAdmin)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	err := v.Approve(ctx, 3)
	if !errors.Is(err, timesheet.ErrApprovalFailed) {
		t.Fatalf("Approve = %v, want ErrApprovalFailed", err)
	}
	row, _ := v.Row(3)
	if row.Approved || row.Action != timesheet.LabelApprove {
		t.Errorf("row changed after failed approve: %+v", row)
	}
}

func TestApproveNotInTutorMode(t *testing.T) {
	v := timesheet.NewView(&fakeService{}, timesheet.ModeTutor)
	if err := v.Approve(context.Background(), 1); !errors.Is(err, timesheet.ErrWrongMode) {
		t.Errorf("Approve in tutor mode = %v, want ErrWrongMode", err)
	}
}
