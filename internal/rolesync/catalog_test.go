package rolesync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pubgbot/internal/rank"

	"github.com/rs/zerolog"
)

func TestEnsureAllTiersExistTwiceOnEmptyDirectory(t *testing.T) {
	directory := newFakeDirectory()
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	for i := 0; i < 2; i++ {
		outcomes, err := catalog.EnsureAllTiersExist(context.Background(), directory)
		if err != nil {
			t.Fatal(err)
		}
		if len(outcomes) != len(rank.Default.Tiers()) {
			t.Fatalf("expected one outcome per tier, got %d", len(outcomes))
		}
		if failures := Failures(outcomes); len(failures) != 0 {
			t.Fatalf("unexpected failures: %v", failures)
		}
	}

	if directory.creations != len(rank.Default.Tiers()) {
		t.Fatalf("expected %d creations, got %d", len(rank.Default.Tiers()), directory.creations)
	}
	for _, tier := range rank.Default.Tiers() {
		if count := directory.count(tier.RoleName()); count != 1 {
			t.Fatalf("expected exactly one %s role, got %d", tier.RoleName(), count)
		}
	}
}

func TestEnsureAllTiersExistCreatesMentionableColoredRoles(t *testing.T) {
	directory := newFakeDirectory("PUBG-Bronze", "Moderators")
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	outcomes, err := catalog.EnsureAllTiersExist(context.Background(), directory)
	if err != nil {
		t.Fatal(err)
	}
	for _, outcome := range outcomes {
		if outcome.Tier == rank.Bronze {
			if outcome.Created {
				t.Fatal("the existing Bronze role should not be created again")
			}
			continue
		}
		if !outcome.Created || !outcome.Role.Mentionable || outcome.Role.Color != rank.Color {
			t.Fatalf("unexpected outcome for %s: %+v", outcome.Tier.Name, outcome)
		}
	}
	if directory.creations != 7 {
		t.Fatalf("expected 7 creations, got %d", directory.creations)
	}
}

func TestEnsureAllTiersExistContinuesAfterFailure(t *testing.T) {
	directory := newFakeDirectory()
	directory.failNames["PUBG-Silver"] = true
	directory.failNames["PUBG-Master"] = true
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	outcomes, err := catalog.EnsureAllTiersExist(context.Background(), directory)
	if err != nil {
		t.Fatalf("creation failures must not be returned as an error: %v", err)
	}
	failures := Failures(outcomes)
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	for _, failure := range failures {
		if !errors.Is(failure.Err, ErrRoleCreationFailed) || !errors.Is(failure.Err, errPlatform) {
			t.Fatalf("unexpected failure error: %v", failure.Err)
		}
	}
	if directory.count("PUBG-GrandMaster") != 1 {
		t.Fatal("tiers after a failed one should still be created")
	}

	// The next run heals the catalog
	delete(directory.failNames, "PUBG-Silver")
	delete(directory.failNames, "PUBG-Master")
	outcomes, err = catalog.EnsureAllTiersExist(context.Background(), directory)
	if err != nil {
		t.Fatal(err)
	}
	if len(Failures(outcomes)) != 0 || directory.creations != 8 {
		t.Fatalf("expected the missing roles to be created, got %d creations", directory.creations)
	}
}

func TestEnsureAllTiersExistListFailure(t *testing.T) {
	directory := newFakeDirectory()
	directory.listErr = errPlatform
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	if _, err := catalog.EnsureAllTiersExist(context.Background(), directory); !errors.Is(err, errPlatform) {
		t.Fatalf("expected the listing error, got %v", err)
	}
	if directory.creations != 0 {
		t.Fatal("nothing should be created when the directory cannot be listed")
	}
}

func TestEnsureAllTiersExistConcurrently(t *testing.T) {
	directory := newFakeDirectory()
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := catalog.EnsureAllTiersExist(context.Background(), directory); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	for _, tier := range rank.Default.Tiers() {
		if count := directory.count(tier.RoleName()); count != 1 {
			t.Fatalf("expected exactly one %s role, got %d", tier.RoleName(), count)
		}
	}
}

func TestIsTierRole(t *testing.T) {
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())
	for _, name := range []string{"PUBG-Bronze", "PUBG-GrandMaster"} {
		if !catalog.IsTierRole(name) {
			t.Fatalf("%s should be a tier role", name)
		}
	}
	for _, name := range []string{"Gold", "PUBG-gold", "PUBG-", "Moderators"} {
		if catalog.IsTierRole(name) {
			t.Fatalf("%s should not be a tier role", name)
		}
	}
}

func TestEnsureAllTiersExistSurvivesCancelledLeader(t *testing.T) {
	directory := newFakeDirectory()
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	defer cancelLeader()

	// The first creation blocks until the leader is cancelled
	entered := make(chan struct{})
	var blocked atomic.Bool
	directory.hold = func(ctx context.Context) error {
		if blocked.CompareAndSwap(false, true) {
			close(entered)
			<-ctx.Done()
		}
		return ctx.Err()
	}

	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		catalog.EnsureAllTiersExist(leaderCtx, directory)
	}()
	<-entered

	type ensureResult struct {
		outcomes []TierOutcome
		err      error
	}
	joined := make(chan ensureResult, 1)
	go func() {
		outcomes, err := catalog.EnsureAllTiersExist(context.Background(), directory)
		joined <- ensureResult{outcomes, err}
	}()

	// Give the second call time to join the pass in progress
	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	<-leaderDone

	result := <-joined
	if result.err != nil {
		t.Fatal(result.err)
	}
	if failures := Failures(result.outcomes); len(failures) != 0 {
		t.Fatalf("a live caller should not inherit the cancellation of another: %v", failures)
	}
	for _, tier := range rank.Default.Tiers() {
		if count := directory.count(tier.RoleName()); count != 1 {
			t.Fatalf("expected exactly one %s role, got %d", tier.RoleName(), count)
		}
	}
}

func TestEnsureAllTiersExistReportsOwnCancellation(t *testing.T) {
	directory := newFakeDirectory()
	directory.hold = func(ctx context.Context) error { return ctx.Err() }
	catalog := NewCatalog(rank.Default.Tiers(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, err := catalog.EnsureAllTiersExist(ctx, directory)
	if err != nil {
		t.Fatal(err)
	}
	failures := Failures(outcomes)
	if len(failures) != len(rank.Default.Tiers()) {
		t.Fatalf("expected every creation to fail, got %d failures", len(failures))
	}
	if !errors.Is(failures[0].Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", failures[0].Err)
	}
}
