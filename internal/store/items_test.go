package store

import (
	"context"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/uft-palmas/achados/internal/db"
	"github.com/uft-palmas/achados/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	it := newItem(owner.ID, "Carteira preta", baseTime)
	it.LocationDetail = "sala 12"
	item := mustItem(t, database, it)

	if item.Title != "Carteira preta" {
		t.Errorf("expected title 'Carteira preta', got %q", item.Title)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if item.LocationDetail != "sala 12" {
		t.Errorf("expected location 'sala 12', got %q", item.LocationDetail)
	}
	if item.OwnerName != "ana" {
		t.Errorf("expected owner name 'ana', got %q", item.OwnerName)
	}
	if !item.CreatedAt.Equal(baseTime) {
		t.Errorf("expected created_at %v, got %v", baseTime, item.CreatedAt)
	}
	if item.ResolvedAt != nil || item.ResolvedBy != nil {
		t.Error("expected no resolution on a new item")
	}

	missing, err := GetItem(ctx, database, item.ID+100)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListItemsDefaultsToActive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	mustItem(t, database, newItem(owner.ID, "Ativo", baseTime))
	resolved := mustItem(t, database, newItem(owner.ID, "Resolvido", baseTime.Add(time.Hour)))
	resolved.Status = model.ItemStatusResolved
	if err := SaveItemState(ctx, database, resolved); err != nil {
		t.Fatalf("SaveItemState: %v", err)
	}

	active, _ := ListItems(ctx, database, ItemFilter{})
	if got := titles(active); !reflect.DeepEqual(got, []string{"Ativo"}) {
		t.Errorf("default listing = %v", got)
	}

	all, _ := ListItems(ctx, database, ItemFilter{Status: model.StatusAll})
	if len(all) != 2 {
		t.Errorf("expected 2 items with status=all, got %d", len(all))
	}

	onlyResolved, _ := ListItems(ctx, database, ItemFilter{Status: model.ItemStatusResolved})
	if got := titles(onlyResolved); !reflect.DeepEqual(got, []string{"Resolvido"}) {
		t.Errorf("resolved listing = %v", got)
	}
}

func TestListItemsSearchIsCaseInsensitive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	mustItem(t, database, newItem(owner.ID, "Black Wallet", baseTime))
	other := newItem(owner.ID, "Guarda-chuva", baseTime)
	other.Description = "Deixado perto da WALLET station"
	mustItem(t, database, other)
	mustItem(t, database, newItem(owner.ID, "Chaves", baseTime))

	items, err := ListItems(ctx, database, ItemFilter{Search: "wallet"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 matches, got %v", titles(items))
	}

	none, _ := ListItems(ctx, database, ItemFilter{Search: "100%"})
	if len(none) != 0 {
		t.Errorf("expected literal %% to match nothing, got %v", titles(none))
	}
}

func TestListItemsSearchFoldsAccentedLetters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	mustItem(t, database, newItem(owner.ID, "Óculos De Sol Pretos", baseTime))
	bus := newItem(owner.ID, "Casaco", baseTime)
	bus.LocationDetail = "Ponto do ÔNIBUS"
	mustItem(t, database, bus)
	mustItem(t, database, newItem(owner.ID, "Garrafa De Água", baseTime))

	for search, want := range map[string]string{
		"óculos": "Óculos De Sol Pretos",
		"ÓCULOS": "Óculos De Sol Pretos",
		"Óculos": "Óculos De Sol Pretos",
		"ônibus": "Casaco",
		"ÁGUA":   "Garrafa De Água",
	} {
		items, err := ListItems(ctx, database, ItemFilter{Search: search})
		if err != nil {
			t.Fatalf("ListItems(%q): %v", search, err)
		}
		if got := titles(items); !reflect.DeepEqual(got, []string{want}) {
			t.Errorf("search %q = %v, want [%s]", search, got, want)
		}
	}
}

func TestListItemsOffsetAndCount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	for i, title := range []string{"um", "dois", "três", "quatro", "cinco"} {
		mustItem(t, database, newItem(owner.ID, title, baseTime.Add(time.Duration(i)*time.Hour)))
	}
	done := mustItem(t, database, newItem(owner.ID, "resolvido", baseTime))
	done.Status = model.ItemStatusResolved
	SaveItemState(ctx, database, done)

	f := ItemFilter{Sort: SortOldest, Limit: 2, Offset: 2}
	page, err := ListItems(ctx, database, f)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := titles(page); !reflect.DeepEqual(got, []string{"três", "quatro"}) {
		t.Errorf("second page = %v", got)
	}

	n, err := CountItems(ctx, database, f)
	if err != nil {
		t.Fatalf("CountItems: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 active items counted, got %d", n)
	}

	tail, _ := ListItems(ctx, database, ItemFilter{Sort: SortOldest, Offset: 4})
	if got := titles(tail); !reflect.DeepEqual(got, []string{"cinco"}) {
		t.Errorf("offset without limit = %v", got)
	}

	matched, _ := CountItems(ctx, database, ItemFilter{Search: "DOIS", Status: model.StatusAll})
	if matched != 1 {
		t.Errorf("expected search to count 1 item, got %d", matched)
	}
}

func TestListItemsFiltersCommute(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	a := newItem(owner.ID, "Notebook Dell", baseTime)
	mustItem(t, database, a)
	b := newItem(owner.ID, "Notebook HP", baseTime)
	b.Type = model.ItemTypeFound
	mustItem(t, database, b)
	c := newItem(owner.ID, "Caderno", baseTime)
	c.Category = "books_supplies"
	mustItem(t, database, c)

	f := ItemFilter{Search: "notebook", Type: model.ItemTypeLost, Category: "electronics"}
	combined, _ := ListItems(ctx, database, f)

	// Applying the filters one at a time must give the same set.
	step, _ := ListItems(ctx, database, ItemFilter{Search: "notebook"})
	var narrowed []string
	for _, it := range step {
		if it.Type == f.Type && it.Category == f.Category {
			narrowed = append(narrowed, it.Title)
		}
	}
	got := titles(combined)
	sort.Strings(got)
	sort.Strings(narrowed)
	if !reflect.DeepEqual(got, narrowed) {
		t.Errorf("combined %v != stepwise %v", got, narrowed)
	}
	if len(got) != 1 || got[0] != "Notebook Dell" {
		t.Errorf("expected only 'Notebook Dell', got %v", got)
	}
}

func TestListItemsDateRangeIsInclusive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	day := func(d int) time.Time { return time.Date(2025, 3, d, 23, 30, 0, 0, time.UTC) }
	mustItem(t, database, newItem(owner.ID, "dia 9", day(9)))
	mustItem(t, database, newItem(owner.ID, "dia 10", day(10)))
	mustItem(t, database, newItem(owner.ID, "dia 11", day(11)))
	mustItem(t, database, newItem(owner.ID, "dia 12", day(12)))

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	items, err := ListItems(ctx, database, ItemFilter{DateFrom: &from, DateTo: &to, Sort: SortOldest})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := titles(items); !reflect.DeepEqual(got, []string{"dia 10", "dia 11"}) {
		t.Errorf("date range = %v", got)
	}

	empty, _ := ListItems(ctx, database, ItemFilter{DateFrom: &to, DateTo: &from})
	if len(empty) != 0 {
		t.Errorf("expected empty result for inverted range, got %v", titles(empty))
	}
}

func TestListItemsSortAndPriority(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	first := mustItem(t, database, newItem(owner.ID, "beta", baseTime))
	second := mustItem(t, database, newItem(owner.ID, "Alfa", baseTime.Add(time.Hour)))
	mustItem(t, database, newItem(owner.ID, "gama", baseTime.Add(2*time.Hour)))

	newest, _ := ListItems(ctx, database, ItemFilter{})
	if got := titles(newest); !reflect.DeepEqual(got, []string{"gama", "Alfa", "beta"}) {
		t.Errorf("newest first = %v", got)
	}

	byTitle, _ := ListItems(ctx, database, ItemFilter{Sort: SortTitle})
	if got := titles(byTitle); !reflect.DeepEqual(got, []string{"Alfa", "beta", "gama"}) {
		t.Errorf("by title = %v", got)
	}

	unknown, _ := ListItems(ctx, database, ItemFilter{Sort: "owner_id; DROP TABLE items"})
	if got := titles(unknown); !reflect.DeepEqual(got, titles(newest)) {
		t.Errorf("unknown sort should fall back to default, got %v", got)
	}

	IncrementViews(ctx, database, first.ID)
	IncrementViews(ctx, database, first.ID)
	IncrementViews(ctx, database, second.ID)
	byViews, _ := ListItems(ctx, database, ItemFilter{Sort: SortViews})
	if got := titles(byViews); !reflect.DeepEqual(got, []string{"beta", "Alfa", "gama"}) {
		t.Errorf("by views = %v", got)
	}

	if err := SetItemPriority(ctx, database, second.ID, true, baseTime); err != nil {
		t.Fatalf("SetItemPriority: %v", err)
	}
	prio, _ := ListItems(ctx, database, ItemFilter{Priority: true})
	if got := titles(prio); !reflect.DeepEqual(got, []string{"Alfa"}) {
		t.Errorf("priority = %v", got)
	}
}

func TestListItemsOwnerExcludeAndLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana := mustUser(t, database, "ana")
	bruno := mustUser(t, database, "bruno")

	a1 := mustItem(t, database, newItem(ana.ID, "a1", baseTime))
	mustItem(t, database, newItem(ana.ID, "a2", baseTime.Add(time.Hour)))
	mustItem(t, database, newItem(bruno.ID, "b1", baseTime.Add(2*time.Hour)))
	spam := mustItem(t, database, newItem(bruno.ID, "b2", baseTime.Add(3*time.Hour)))
	spam.Status = model.ItemStatusSpam
	SaveItemState(ctx, database, spam)

	mine, _ := ListItems(ctx, database, ItemFilter{OwnerID: ana.ID, Status: model.StatusAll})
	if len(mine) != 2 {
		t.Errorf("expected 2 items for ana, got %v", titles(mine))
	}

	related, _ := ListItems(ctx, database, ItemFilter{ExcludeID: a1.ID, Limit: 1})
	if got := titles(related); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Errorf("exclude+limit = %v", got)
	}

	visible, _ := ListItems(ctx, database, ItemFilter{
		Status:          model.StatusAll,
		ExcludeStatuses: []string{model.ItemStatusSpam, model.ItemStatusExpired},
	})
	if len(visible) != 3 {
		t.Errorf("expected spam excluded, got %v", titles(visible))
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	item := mustItem(t, database, newItem(owner.ID, "Original", baseTime))
	item.Title = "Alterado"
	item.ContactPhone = "63 99999-0000"
	item.UpdatedAt = baseTime.Add(time.Hour)
	if err := UpdateItem(ctx, database, item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Title != "Alterado" {
		t.Errorf("expected 'Alterado', got %q", got.Title)
	}
	if got.ContactPhone != "63 99999-0000" {
		t.Errorf("expected phone, got %q", got.ContactPhone)
	}
	if !got.UpdatedAt.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("expected updated_at to move, got %v", got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Errorf("created_at changed to %v", got.CreatedAt)
	}
}

func TestSaveItemStateStoresResolution(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	item := mustItem(t, database, newItem(owner.ID, "Chaves", baseTime))
	now := baseTime.Add(2 * time.Hour)
	if err := item.MarkResolved(&owner.ID, now); err != nil {
		t.Fatalf("MarkResolved: %v", err)
	}
	if err := SaveItemState(ctx, database, item); err != nil {
		t.Fatalf("SaveItemState: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusResolved {
		t.Errorf("expected resolved, got %q", got.Status)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(now) {
		t.Errorf("expected resolved_at %v, got %v", now, got.ResolvedAt)
	}
	if got.ResolvedBy == nil || *got.ResolvedBy != owner.ID {
		t.Errorf("expected resolved_by %d, got %v", owner.ID, got.ResolvedBy)
	}
}

func TestIncrementViews(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	item := mustItem(t, database, newItem(owner.ID, "Óculos", baseTime))

	var last int64
	for i := 1; i <= 3; i++ {
		views, err := IncrementViews(ctx, database, item.ID)
		if err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
		if views != last+1 {
			t.Errorf("expected views %d, got %d", last+1, views)
		}
		last = views
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Views != 3 {
		t.Errorf("expected 3 views, got %d", got.Views)
	}
	if !got.UpdatedAt.Equal(baseTime) {
		t.Errorf("view counting must not touch updated_at, got %v", got.UpdatedAt)
	}
}

func TestViewsSurviveOtherUpdates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	item := mustItem(t, database, newItem(owner.ID, "Pendrive", baseTime))

	// Each writer works from a copy read before the increments.
	stale := *item
	for i := 0; i < 3; i++ {
		if _, err := IncrementViews(ctx, database, item.ID); err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
		stale.Description = "Pendrive de 32GB com adesivo azul"
		if err := UpdateItem(ctx, database, &stale); err != nil {
			t.Fatalf("UpdateItem: %v", err)
		}
		if _, err := IncrementViews(ctx, database, item.ID); err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
		if err := SaveItemState(ctx, database, &stale); err != nil {
			t.Fatalf("SaveItemState: %v", err)
		}
		if err := SetItemPriority(ctx, database, item.ID, i%2 == 0, baseTime); err != nil {
			t.Fatalf("SetItemPriority: %v", err)
		}
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Views != 6 {
		t.Errorf("expected 6 views, got %d", got.Views)
	}
}

func TestResolveKeepsConcurrentPriority(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")

	item := mustItem(t, database, newItem(owner.ID, "Carregador", baseTime))
	stale := *item

	if err := SetItemPriority(ctx, database, item.ID, true, baseTime); err != nil {
		t.Fatalf("SetItemPriority: %v", err)
	}
	if err := stale.MarkResolved(nil, baseTime.Add(time.Hour)); err != nil {
		t.Fatalf("MarkResolved: %v", err)
	}
	if err := SaveItemState(ctx, database, &stale); err != nil {
		t.Fatalf("SaveItemState: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusResolved {
		t.Errorf("expected resolved, got %q", got.Status)
	}
	if !got.Priority {
		t.Error("resolving must not overwrite the priority flag")
	}
}

func TestDeleteItemCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")
	other := mustUser(t, database, "bruno")

	item := mustItem(t, database, newItem(owner.ID, "Mochila", baseTime))
	CreateComment(ctx, database, &model.Comment{ItemID: item.ID, AuthorID: other.ID, Body: "Vi uma parecida", CreatedAt: baseTime})
	CreateContact(ctx, database, &model.Contact{ItemID: item.ID, SenderID: other.ID, Message: "É minha", CreatedAt: baseTime})

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone")
	}
	comments, _ := ListComments(ctx, database, item.ID)
	if len(comments) != 0 {
		t.Errorf("expected comments to be removed, got %d", len(comments))
	}
	sent, _ := ListSentContacts(ctx, database, other.ID)
	if len(sent) != 0 {
		t.Errorf("expected contacts to be removed, got %d", len(sent))
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "ana")
	item := mustItem(t, database, newItem(owner.ID, "Boné", baseTime))

	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if err := SetItemPhoto(ctx, database, item.ID, photo, "image/jpeg"); err != nil {
		t.Fatalf("SetItemPhoto: %v", err)
	}

	data, mime, err := GetItemPhoto(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected 'image/jpeg', got %q", mime)
	}
	if len(data) != len(photo) {
		t.Errorf("expected %d bytes, got %d", len(photo), len(data))
	}

	got, _ := GetItem(ctx, database, item.ID)
	if !got.HasPhoto() {
		t.Error("expected item to report a photo")
	}
}

func TestItemStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana := mustUser(t, database, "ana")
	bruno := mustUser(t, database, "bruno")

	mustItem(t, database, newItem(ana.ID, "perdido", baseTime))
	found := newItem(ana.ID, "achado", baseTime)
	found.Type = model.ItemTypeFound
	mustItem(t, database, found)
	done := mustItem(t, database, newItem(bruno.ID, "resolvido", baseTime))
	done.Status = model.ItemStatusResolved
	SaveItemState(ctx, database, done)

	stats, err := GetItemStats(ctx, database)
	if err != nil {
		t.Fatalf("GetItemStats: %v", err)
	}
	want := model.ItemStats{ActiveLost: 1, ActiveFound: 1, Resolved: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	own, _ := GetOwnerStats(ctx, database, ana.ID)
	if own.Total != 2 || own.Active != 2 || own.Resolved != 0 {
		t.Errorf("owner stats = %+v", own)
	}
}
