package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/flow"
	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// fakeStore is an in-memory flow.Store. InTx snapshots state before running
// the callback and restores it on error, matching the all-or-nothing contract
// of the real transaction.
type fakeStore struct {
	packs     map[uuid.UUID]*models.ProductPack
	processes map[uuid.UUID][]*models.ProductProcess
	depts     map[uuid.UUID]*models.Department
	employees map[uuid.UUID]*models.Employee
	products  map[uuid.UUID]*models.Product
	companies map[uuid.UUID]*models.OutsourceCompany

	// failConflicts makes the next N InTx calls fail with ErrConflict
	// before running the callback.
	failConflicts int
	txCalls       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		packs:     make(map[uuid.UUID]*models.ProductPack),
		processes: make(map[uuid.UUID][]*models.ProductProcess),
		depts:     make(map[uuid.UUID]*models.Department),
		employees: make(map[uuid.UUID]*models.Employee),
		products:  make(map[uuid.UUID]*models.Product),
		companies: make(map[uuid.UUID]*models.OutsourceCompany),
	}
}

func (f *fakeStore) seedDepartment(name string) *models.Department {
	d := &models.Department{ID: uuid.New(), Name: name}
	f.depts[d.ID] = d
	return d
}

func (f *fakeStore) seedEmployee(dept *models.Department) *models.Employee {
	e := &models.Employee{ID: uuid.New(), Name: "worker", DepartmentID: dept.ID, DepartmentName: dept.Name}
	f.employees[e.ID] = e
	return e
}

func (f *fakeStore) seedProduct(model string) *models.Product {
	p := &models.Product{ID: uuid.New(), Model: model}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) seedCompany(name string) *models.OutsourceCompany {
	c := &models.OutsourceCompany{ID: uuid.New(), Name: name}
	f.companies[c.ID] = c
	return c
}

func (f *fakeStore) snapshot() (map[uuid.UUID]*models.ProductPack, map[uuid.UUID][]*models.ProductProcess) {
	packs := make(map[uuid.UUID]*models.ProductPack, len(f.packs))
	for id, p := range f.packs {
		cp := *p
		packs[id] = &cp
	}
	procs := make(map[uuid.UUID][]*models.ProductProcess, len(f.processes))
	for id, list := range f.processes {
		cp := make([]*models.ProductProcess, len(list))
		for i, pr := range list {
			c := *pr
			cp[i] = &c
		}
		procs[id] = cp
	}
	return packs, procs
}

func (f *fakeStore) InTx(ctx context.Context, fn func(flow.Tx) error) error {
	f.txCalls++
	if f.failConflicts > 0 {
		f.failConflicts--
		return utils.ErrConflict
	}
	packs, procs := f.snapshot()
	if err := fn(&fakeTx{store: f}); err != nil {
		f.packs, f.processes = packs, procs
		return err
	}
	return nil
}

func (f *fakeStore) GetPack(ctx context.Context, id uuid.UUID) (*models.ProductPack, error) {
	p, ok := f.packs[id]
	if !ok {
		return nil, utils.ErrPackNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	d, ok := f.depts[id]
	if !ok {
		return nil, utils.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeStore) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, utils.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, utils.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeStore) GetCompany(ctx context.Context, id uuid.UUID) (*models.OutsourceCompany, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, utils.ErrCompanyNotFound
	}
	return c, nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) GetPackForUpdate(ctx context.Context, id uuid.UUID) (*models.ProductPack, error) {
	p, ok := t.store.packs[id]
	if !ok {
		return nil, utils.ErrPackNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *fakeTx) CreatePack(ctx context.Context, p *models.ProductPack) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	t.store.packs[p.ID] = &cp
	return nil
}

func (t *fakeTx) CreateProcess(ctx context.Context, pr *models.ProductProcess) error {
	pr.CreatedAt = time.Now()
	cp := *pr
	t.store.processes[pr.PackID] = append(t.store.processes[pr.PackID], &cp)
	if pack, ok := t.store.packs[pr.PackID]; ok {
		id := pr.ID
		pack.LatestProcessID = &id
	}
	return nil
}

func (t *fakeTx) DeletePendingProcess(ctx context.Context, packID uuid.UUID) (bool, error) {
	list := t.store.processes[packID]
	kept := list[:0]
	deleted := false
	for _, pr := range list {
		if pr.Status == models.ProcessPending {
			deleted = true
			continue
		}
		kept = append(kept, pr)
	}
	t.store.processes[packID] = kept
	return deleted, nil
}

func (t *fakeTx) HasPendingProcess(ctx context.Context, packID uuid.UUID) (bool, error) {
	for _, pr := range t.store.processes[packID] {
		if pr.Status == models.ProcessPending {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) CumulativeCounts(ctx context.Context, packID uuid.UUID) (int64, int64, error) {
	var sent, invalid int64
	for _, pr := range t.store.processes[packID] {
		if pr.Status == models.ProcessPending {
			continue
		}
		sent += pr.SentCount
		invalid += pr.InvalidCount
	}
	return sent, invalid, nil
}

func (t *fakeTx) MarkPackOver(ctx context.Context, packID uuid.UUID, over bool) error {
	pack, ok := t.store.packs[packID]
	if !ok {
		return utils.ErrPackNotFound
	}
	pack.ProcessIsOver = over
	return nil
}

// checkConservation asserts sum(sent) + sum(invalid) + latest residue equals
// the pack's total for a pack that still has residue accounting open.
func checkConservation(t *testing.T, f *fakeStore, packID uuid.UUID) {
	t.Helper()
	pack := f.packs[packID]
	var sent, invalid int64
	var latest *models.ProductProcess
	for _, pr := range f.processes[packID] {
		if pr.Status == models.ProcessPending {
			continue
		}
		sent += pr.SentCount
		invalid += pr.InvalidCount
		latest = pr
	}
	if latest == nil {
		t.Fatalf("pack %s has no committed processes", packID)
	}
	got := sent + invalid + latest.ResidueCount
	if got != pack.TotalCount {
		t.Errorf("conservation violated for pack %s: sent=%d invalid=%d residue=%d total=%d",
			packID, sent, invalid, latest.ResidueCount, pack.TotalCount)
	}
}

type flowFixture struct {
	store    *fakeStore
	svc      *PackFlowService
	product  *models.Product
	depts    map[string]*models.Department
	employee *models.Employee
}

func newFlowFixture(t *testing.T, deptNames ...string) *flowFixture {
	t.Helper()
	f := newFakeStore()
	depts := make(map[string]*models.Department, len(deptNames))
	for _, name := range deptNames {
		depts[name] = f.seedDepartment(name)
	}
	first := depts[deptNames[0]]
	return &flowFixture{
		store:    f,
		svc:      NewPackFlowService(f),
		product:  f.seedProduct("polo-2024"),
		depts:    depts,
		employee: f.seedEmployee(first),
	}
}

func (fx *flowFixture) intake(t *testing.T, dept string, total, invalid int64) *models.ProductPack {
	t.Helper()
	pack, err := fx.svc.Intake(context.Background(), IntakeInput{
		DepartmentID: fx.depts[dept].ID,
		ProductID:    fx.product.ID,
		EmployeeID:   fx.employee.ID,
		TotalCount:   total,
		InvalidCount: invalid,
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	return pack
}

func (fx *flowFixture) send(t *testing.T, src uuid.UUID, dept string, count, invalid int64) *SendOutcome {
	t.Helper()
	out, err := fx.svc.Send(context.Background(), SendInput{
		SourcePackID:       src,
		TargetDepartmentID: fx.depts[dept].ID,
		EmployeeID:         fx.employee.ID,
		SendCount:          count,
		InvalidCount:       invalid,
	})
	if err != nil {
		t.Fatalf("send to %s: %v", dept, err)
	}
	return out
}

func (fx *flowFixture) accept(t *testing.T, packID uuid.UUID, invalid int64) *AcceptOutcome {
	t.Helper()
	out, err := fx.svc.Accept(context.Background(), AcceptInput{
		PackID:       packID,
		EmployeeID:   fx.employee.ID,
		InvalidCount: invalid,
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return out
}

func TestIntakeCreatesPackAndProcess(t *testing.T) {
	fx := newFlowFixture(t, "bichuv")
	pack := fx.intake(t, "bichuv", 100, 10)

	if pack.TotalCount != 100 {
		t.Errorf("totalCount = %d, want 100", pack.TotalCount)
	}
	if pack.ParentID != nil {
		t.Errorf("intake pack must be its own lineage root")
	}
	procs := fx.store.processes[pack.ID]
	if len(procs) != 1 {
		t.Fatalf("process count = %d, want 1", len(procs))
	}
	pr := procs[0]
	if pr.Status != models.ProcessAccepted {
		t.Errorf("status = %q, want %q", pr.Status, models.ProcessAccepted)
	}
	if pr.AcceptCount != 90 || pr.InvalidCount != 10 || pr.ResidueCount != 90 || pr.SentCount != 0 {
		t.Errorf("counts = accept:%d invalid:%d residue:%d sent:%d, want 90/10/90/0",
			pr.AcceptCount, pr.InvalidCount, pr.ResidueCount, pr.SentCount)
	}
	if pack.LatestProcessID == nil || *pack.LatestProcessID != pr.ID {
		t.Errorf("latest process pointer not maintained")
	}
}

func TestIntakeValidation(t *testing.T) {
	fx := newFlowFixture(t, "bichuv")

	tests := []struct {
		name    string
		in      IntakeInput
		wantErr error
	}{
		{
			name: "zero total",
			in: IntakeInput{
				DepartmentID: fx.depts["bichuv"].ID, ProductID: fx.product.ID,
				EmployeeID: fx.employee.ID, TotalCount: 0,
			},
			wantErr: flow.ErrNegativeCount,
		},
		{
			name: "negative invalid",
			in: IntakeInput{
				DepartmentID: fx.depts["bichuv"].ID, ProductID: fx.product.ID,
				EmployeeID: fx.employee.ID, TotalCount: 50, InvalidCount: -1,
			},
			wantErr: flow.ErrNegativeCount,
		},
		{
			name: "invalid exceeds total",
			in: IntakeInput{
				DepartmentID: fx.depts["bichuv"].ID, ProductID: fx.product.ID,
				EmployeeID: fx.employee.ID, TotalCount: 50, InvalidCount: 51,
			},
			wantErr: flow.ErrInvalidExceedsTotal,
		},
		{
			name: "unknown department",
			in: IntakeInput{
				DepartmentID: uuid.New(), ProductID: fx.product.ID,
				EmployeeID: fx.employee.ID, TotalCount: 50,
			},
			wantErr: utils.ErrDepartmentNotFound,
		},
		{
			name: "unknown product",
			in: IntakeInput{
				DepartmentID: fx.depts["bichuv"].ID, ProductID: uuid.New(),
				EmployeeID: fx.employee.ID, TotalCount: 50,
			},
			wantErr: utils.ErrProductNotFound,
		},
		{
			name: "unknown employee",
			in: IntakeInput{
				DepartmentID: fx.depts["bichuv"].ID, ProductID: fx.product.ID,
				EmployeeID: uuid.New(), TotalCount: 50,
			},
			wantErr: utils.ErrEmployeeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Intake(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(fx.store.packs) != 0 {
		t.Errorf("failed intakes must not create packs, got %d", len(fx.store.packs))
	}
}

func TestSendExceedingAvailabilityRejected(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif")
	pack := fx.intake(t, "bichuv", 100, 0)

	_, err := fx.svc.Send(context.Background(), SendInput{
		SourcePackID:       pack.ID,
		TargetDepartmentID: fx.depts["tasnif"].ID,
		EmployeeID:         fx.employee.ID,
		SendCount:          60,
		InvalidCount:       50,
	})
	if !errors.Is(err, flow.ErrInsufficientAvailable) {
		t.Fatalf("err = %v, want ErrInsufficientAvailable", err)
	}

	// No side effects.
	if len(fx.store.packs) != 1 {
		t.Errorf("pack count = %d, want 1", len(fx.store.packs))
	}
	if got := len(fx.store.processes[pack.ID]); got != 1 {
		t.Errorf("process count = %d, want 1", got)
	}
	if fx.store.packs[pack.ID].ProcessIsOver {
		t.Errorf("source pack must remain open")
	}
}

func TestFullIntakeSendAcceptCycle(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif")
	pack := fx.intake(t, "bichuv", 50, 0)

	procs := fx.store.processes[pack.ID]
	if procs[0].AcceptCount != 50 || procs[0].ResidueCount != 50 {
		t.Fatalf("intake counts = accept:%d residue:%d, want 50/50", procs[0].AcceptCount, procs[0].ResidueCount)
	}

	out := fx.send(t, pack.ID, "tasnif", 50, 0)

	src := out.SourceProcess
	if src.ResidueCount != 0 {
		t.Errorf("source residue = %d, want 0", src.ResidueCount)
	}
	if src.Status != models.ProcessFullySent {
		t.Errorf("source status = %q, want %q", src.Status, models.ProcessFullySent)
	}
	if !fx.store.packs[pack.ID].ProcessIsOver {
		t.Errorf("drained source pack must be marked over")
	}

	child := out.NewPack
	if child.TotalCount != 50 {
		t.Errorf("child totalCount = %d, want 50", child.TotalCount)
	}
	if child.DepartmentID != fx.depts["tasnif"].ID {
		t.Errorf("child not at target department")
	}
	childProcs := fx.store.processes[child.ID]
	if len(childProcs) != 1 || childProcs[0].Status != models.ProcessPending {
		t.Fatalf("child must carry exactly one Pending process")
	}
	if childProcs[0].SentCount != 50 || childProcs[0].ResidueCount != 50 || childProcs[0].AcceptCount != 0 {
		t.Errorf("pending counts = sent:%d residue:%d accept:%d, want 50/50/0",
			childProcs[0].SentCount, childProcs[0].ResidueCount, childProcs[0].AcceptCount)
	}

	res := fx.accept(t, child.ID, 5)
	if res.Process.AcceptCount != 45 || res.Process.ResidueCount != 0 {
		t.Errorf("accept counts = accept:%d residue:%d, want 45/0", res.Process.AcceptCount, res.Process.ResidueCount)
	}
	if res.IsComplete {
		t.Errorf("tasnif is not terminal, isComplete must be false")
	}
	if has, _ := (&fakeTx{store: fx.store}).HasPendingProcess(context.Background(), child.ID); has {
		t.Errorf("pending process must be consumed by accept")
	}
}

func TestPartialSendReachesFullySentExactly(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif")
	pack := fx.intake(t, "bichuv", 100, 0)

	first := fx.send(t, pack.ID, "tasnif", 60, 0)
	if first.SourceProcess.Status != models.ProcessPartiallySent {
		t.Errorf("first send status = %q, want %q", first.SourceProcess.Status, models.ProcessPartiallySent)
	}
	if first.SourceProcess.ResidueCount != 40 {
		t.Errorf("residue after first send = %d, want 40", first.SourceProcess.ResidueCount)
	}
	if fx.store.packs[pack.ID].ProcessIsOver {
		t.Errorf("pack must stay open after partial send")
	}

	second := fx.send(t, pack.ID, "tasnif", 30, 10)
	if second.SourceProcess.Status != models.ProcessFullySent {
		t.Errorf("second send status = %q, want %q", second.SourceProcess.Status, models.ProcessFullySent)
	}
	if second.SourceProcess.ResidueCount != 0 {
		t.Errorf("residue after second send = %d, want 0", second.SourceProcess.ResidueCount)
	}
	if !fx.store.packs[pack.ID].ProcessIsOver {
		t.Errorf("drained pack must be marked over")
	}
	checkConservation(t, fx.store, pack.ID)
}

func TestDoubleAcceptRejected(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif")
	pack := fx.intake(t, "bichuv", 50, 0)
	out := fx.send(t, pack.ID, "tasnif", 50, 0)

	fx.accept(t, out.NewPack.ID, 0)

	_, err := fx.svc.Accept(context.Background(), AcceptInput{
		PackID:     out.NewPack.ID,
		EmployeeID: fx.employee.ID,
	})
	if !errors.Is(err, utils.ErrNoPendingProcess) {
		t.Fatalf("second accept err = %v, want ErrNoPendingProcess", err)
	}
	// Exactly one accepted process besides nothing else.
	procs := fx.store.processes[out.NewPack.ID]
	if len(procs) != 1 || procs[0].Status != models.ProcessAccepted {
		t.Errorf("child must end with exactly one accepted process, got %d", len(procs))
	}
}

func TestSendBlockedByUnresolvedPending(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif", "pechat")
	pack := fx.intake(t, "bichuv", 50, 0)
	out := fx.send(t, pack.ID, "tasnif", 50, 0)

	_, err := fx.svc.Send(context.Background(), SendInput{
		SourcePackID:       out.NewPack.ID,
		TargetDepartmentID: fx.depts["pechat"].ID,
		EmployeeID:         fx.employee.ID,
		SendCount:          10,
	})
	if !errors.Is(err, utils.ErrPendingUnresolved) {
		t.Fatalf("err = %v, want ErrPendingUnresolved", err)
	}
}

func TestSendFromClosedPackRejected(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif")
	pack := fx.intake(t, "bichuv", 50, 0)
	fx.send(t, pack.ID, "tasnif", 50, 0)

	_, err := fx.svc.Send(context.Background(), SendInput{
		SourcePackID:       pack.ID,
		TargetDepartmentID: fx.depts["tasnif"].ID,
		EmployeeID:         fx.employee.ID,
		SendCount:          1,
	})
	if !errors.Is(err, utils.ErrPackClosed) {
		t.Fatalf("err = %v, want ErrPackClosed", err)
	}
}

func TestSendIllegalTransitionRejected(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "kontrol")
	pack := fx.intake(t, "bichuv", 50, 0)

	_, err := fx.svc.Send(context.Background(), SendInput{
		SourcePackID:       pack.ID,
		TargetDepartmentID: fx.depts["kontrol"].ID,
		EmployeeID:         fx.employee.ID,
		SendCount:          10,
	})
	if !errors.Is(err, utils.ErrIllegalTransition) {
		t.Fatalf("err = %v, want ErrIllegalTransition", err)
	}
	if len(fx.store.packs) != 1 {
		t.Errorf("illegal send must not create a child pack")
	}
}

func TestLineageStaysFlattened(t *testing.T) {
	fx := newFlowFixture(t, "bichuv", "tasnif", "pechat", "vishivka")
	root := fx.intake(t, "bichuv", 100, 0)

	cur := root
	for _, dept := range []string{"tasnif", "pechat", "vishivka"} {
		out := fx.send(t, cur.ID, dept, cur.TotalCount, 0)
		fx.accept(t, out.NewPack.ID, 0)
		child := out.NewPack
		if child.ParentID == nil || *child.ParentID != root.ID {
			t.Fatalf("pack at %s carries parentId %v, want root %s", dept, child.ParentID, root.ID)
		}
		cur = child
	}
}

func TestAcceptAtWarehouseCompletesPack(t *testing.T) {
	fx := newFlowFixture(t, "upakovka", "ombor")
	pack := fx.intake(t, "upakovka", 30, 0)
	out := fx.send(t, pack.ID, "ombor", 30, 0)

	res := fx.accept(t, out.NewPack.ID, 0)
	if !res.IsComplete {
		t.Fatalf("accept at ombor must complete the pack")
	}
	if !res.Process.ProcessIsOver {
		t.Errorf("terminal accept process must carry the completion flag")
	}
	if !fx.store.packs[out.NewPack.ID].ProcessIsOver {
		t.Errorf("pack row must be marked over at the warehouse")
	}
}

func TestSendToOutsourcedVariant(t *testing.T) {
	fx := newFlowFixture(t, "tasnif", "pechat_usluga")
	company := fx.store.seedCompany("print-partner")
	pack := fx.intake(t, "tasnif", 40, 0)

	out, err := fx.svc.Send(context.Background(), SendInput{
		SourcePackID:       pack.ID,
		TargetDepartmentID: fx.depts["pechat_usluga"].ID,
		EmployeeID:         fx.employee.ID,
		SendCount:          40,
		OutsourceCompanyID: &company.ID,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	pending := fx.store.processes[out.NewPack.ID][0]
	if !pending.IsOutsourced {
		t.Errorf("pending process must be flagged outsourced")
	}
	if pending.OutsourceCompanyID == nil || *pending.OutsourceCompanyID != company.ID {
		t.Errorf("pending process must reference the outsourcing company")
	}
}

func TestConflictRetriesOnce(t *testing.T) {
	fx := newFlowFixture(t, "bichuv")
	fx.store.failConflicts = 1

	pack := fx.intake(t, "bichuv", 10, 0)
	if fx.store.txCalls != 2 {
		t.Errorf("tx calls = %d, want 2 (one conflict, one retry)", fx.store.txCalls)
	}
	if _, ok := fx.store.packs[pack.ID]; !ok {
		t.Errorf("retry must have committed the pack")
	}

	fx.store.failConflicts = 2
	_, err := fx.svc.Intake(context.Background(), IntakeInput{
		DepartmentID: fx.depts["bichuv"].ID,
		ProductID:    fx.product.ID,
		EmployeeID:   fx.employee.ID,
		TotalCount:   10,
	})
	if !errors.Is(err, utils.ErrConflict) {
		t.Errorf("persistent conflict must surface after one retry, got %v", err)
	}
}
