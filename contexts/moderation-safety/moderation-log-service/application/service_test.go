package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"clearwater/contexts/moderation-safety/moderation-log-service/adapters/memory"
	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	domainerrors "clearwater/contexts/moderation-safety/moderation-log-service/domain/errors"
	"clearwater/contexts/moderation-safety/moderation-log-service/ports"
)

func newService(store *memory.Store) Service {
	return Service{
		Repo:  store,
		Clock: store,
	}
}

func staffActor(n int) ports.Actor {
	return ports.Actor{
		ID:   fmt.Sprintf("staff-%d", n),
		Name: fmt.Sprintf("Staff %d", n),
	}
}

func createFor(t *testing.T, svc Service, actor ports.Actor, target string, reason string) entities.LogEntry {
	t.Helper()
	entry, err := svc.CreateLog(context.Background(), actor, ports.CreateLogInput{
		TargetName: target,
		ActionKind: entities.ActionWarning,
		Reason:     reason,
	})
	if err != nil {
		t.Fatalf("create log failed: %v", err)
	}
	return entry
}

func TestThirdOffenseCreatesSingleBolo(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	createFor(t, svc, staffActor(1), "alice", "r1")
	createFor(t, svc, staffActor(2), "ALICE", "r2")
	createFor(t, svc, staffActor(3), "Alice", "r3")

	items, err := svc.ListLogs(context.Background(), 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 3 staff entries plus 1 bolo, got %d", len(items))
	}

	bolo := items[0]
	if bolo.ActionKind != entities.ActionActiveBanBolo {
		t.Fatalf("expected pinned bolo first, got %s", bolo.ActionKind)
	}
	if !bolo.Pinned {
		t.Fatalf("synthetic bolo must be pinned")
	}
	if bolo.PriorOffenseCount != 3 {
		t.Fatalf("expected prior offense count 3, got %d", bolo.PriorOffenseCount)
	}
	if !bolo.Automated() {
		t.Fatalf("bolo must carry the automation sentinel author, got %q", bolo.AuthorName)
	}

	// Rest of the listing is newest-first: r3, r2, r1.
	for i, want := range []string{"r3", "r2", "r1"} {
		if items[i+1].Reason != want {
			t.Fatalf("position %d: expected reason %s, got %s", i+1, want, items[i+1].Reason)
		}
	}
}

func TestFourthOffenseDoesNotRetrigger(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	for i := 1; i <= 4; i++ {
		createFor(t, svc, staffActor(i), "bob", fmt.Sprintf("r%d", i))
	}

	items, _ := svc.ListLogs(context.Background(), 0)
	bolos := 0
	for _, item := range items {
		if item.ActionKind == entities.ActionActiveBanBolo {
			bolos++
		}
	}
	if bolos != 1 {
		t.Fatalf("expected exactly one bolo after 4 offenses, got %d", bolos)
	}
}

func TestSixthOffenseRetriggersAtNextMultiple(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	for i := 1; i <= 6; i++ {
		createFor(t, svc, staffActor(i), "carol", fmt.Sprintf("r%d", i))
	}

	items, _ := svc.ListLogs(context.Background(), 0)
	var counts []int
	for _, item := range items {
		if item.ActionKind == entities.ActionActiveBanBolo {
			counts = append(counts, item.PriorOffenseCount)
		}
	}
	if len(counts) != 2 {
		t.Fatalf("expected bolos at 3 and 6, got %d", len(counts))
	}
	if counts[0] != 6 || counts[1] != 3 {
		t.Fatalf("expected newest-first counts [6 3], got %v", counts)
	}
}

func TestSyntheticEntriesNeverFeedTheCount(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	// Three offenses produce one bolo; two more stay under the next
	// multiple even though the bolo shares the target name.
	for i := 1; i <= 5; i++ {
		createFor(t, svc, staffActor(i), "dave", fmt.Sprintf("r%d", i))
	}

	items, _ := svc.ListLogs(context.Background(), 0)
	bolos := 0
	for _, item := range items {
		if item.ActionKind == entities.ActionActiveBanBolo {
			bolos++
		}
	}
	if bolos != 1 {
		t.Fatalf("expected one bolo for 5 offenses, got %d", bolos)
	}
}

func TestConcurrentCreatesEscalateOnce(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	createFor(t, svc, staffActor(1), "erin", "r1")
	createFor(t, svc, staffActor(2), "erin", "r2")

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.CreateLog(context.Background(), staffActor(10+n), ports.CreateLogInput{
				TargetName: "erin",
				ActionKind: entities.ActionWarning,
				Reason:     fmt.Sprintf("race-%d", n),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create failed: %v", err)
		}
	}

	items, _ := svc.ListLogs(context.Background(), 0)
	bolos := 0
	for _, item := range items {
		if item.ActionKind == entities.ActionActiveBanBolo {
			bolos++
		}
	}
	// 6 staff entries total: crossings at 3 and 6, exactly once each.
	if bolos != 2 {
		t.Fatalf("expected exactly 2 bolos for 6 offenses, got %d", bolos)
	}
}

func TestListOrdersPinnedThenRecency(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	createFor(t, svc, staffActor(1), "frank", "r1")
	createFor(t, svc, staffActor(1), "grace", "r1")
	createFor(t, svc, staffActor(2), "frank", "r2")
	createFor(t, svc, staffActor(3), "frank", "r3") // triggers pinned bolo

	items, _ := svc.ListLogs(context.Background(), 0)
	seenUnpinned := false
	for _, item := range items {
		if item.Pinned && seenUnpinned {
			t.Fatalf("pinned entry found after unpinned entry")
		}
		if !item.Pinned {
			seenUnpinned = true
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Pinned != items[i].Pinned {
			continue
		}
		if items[i-1].CreatedAt.Before(items[i].CreatedAt) {
			t.Fatalf("entries within a pin group must be newest-first")
		}
	}
}

func TestCompleteConvertsBoloToBan(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	for i := 1; i <= 3; i++ {
		createFor(t, svc, staffActor(i), "henry", fmt.Sprintf("r%d", i))
	}
	items, _ := svc.ListLogs(context.Background(), 0)
	bolo := items[0]

	completed, err := svc.CompleteLog(context.Background(), staffActor(9), bolo.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.ActionKind != entities.ActionBan {
		t.Fatalf("expected Ban, got %s", completed.ActionKind)
	}
	if !completed.Completed || completed.Pinned {
		t.Fatalf("expected completed and unpinned, got %+v", completed)
	}
	if completed.CompletedBy == "" || completed.CompletedByID == "" || completed.CompletedAt == nil {
		t.Fatalf("completion fields must be set, got %+v", completed)
	}

	// Second completion on the same id is rejected.
	_, err = svc.CompleteLog(context.Background(), staffActor(9), bolo.ID)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on repeat completion, got %v", err)
	}
}

func TestCompleteRejectsNonBoloEntries(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	entry := createFor(t, svc, staffActor(1), "iris", "r1")
	_, err := svc.CompleteLog(context.Background(), staffActor(2), entry.ID)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	items, _ := svc.ListLogs(context.Background(), 0)
	if items[0].ActionKind != entities.ActionWarning || items[0].Completed {
		t.Fatalf("rejected completion must leave the entry unchanged, got %+v", items[0])
	}
}

func TestDeleteRemovesExactlyOneEntry(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	first := createFor(t, svc, staffActor(1), "judy", "r1")
	second := createFor(t, svc, staffActor(2), "judy", "r2")

	if err := svc.DeleteLog(context.Background(), staffActor(3), first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	items, _ := svc.ListLogs(context.Background(), 0)
	if len(items) != 1 || items[0].ID != second.ID {
		t.Fatalf("expected only entry %d to remain, got %+v", second.ID, items)
	}

	if err := svc.DeleteLog(context.Background(), staffActor(3), first.ID); !errors.Is(err, domainerrors.ErrEntryNotFound) {
		t.Fatalf("expected not found for absent id, got %v", err)
	}
}

func TestIDsAreNeverReusedAfterDeletion(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	first := createFor(t, svc, staffActor(1), "kate", "r1")
	if err := svc.DeleteLog(context.Background(), staffActor(1), first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	next := createFor(t, svc, staffActor(1), "kate", "r2")
	if next.ID <= first.ID {
		t.Fatalf("expected fresh id after deletion, got %d after %d", next.ID, first.ID)
	}
}

func TestCreateRejectsAutomationAuthorName(t *testing.T) {
	svc := newService(memory.NewStore())
	_, err := svc.CreateLog(context.Background(), ports.Actor{ID: "x", Name: entities.AutomationAuthorName}, ports.CreateLogInput{
		TargetName: "alice",
		ActionKind: entities.ActionNote,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for sentinel author, got %v", err)
	}
}

func TestCreateRequiresTargetAndAction(t *testing.T) {
	svc := newService(memory.NewStore())
	_, err := svc.CreateLog(context.Background(), staffActor(1), ports.CreateLogInput{
		TargetName: "",
		ActionKind: entities.ActionNote,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for missing target, got %v", err)
	}
	_, err = svc.CreateLog(context.Background(), staffActor(1), ports.CreateLogInput{
		TargetName: "alice",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for missing action kind, got %v", err)
	}
}
