package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pubgbot/internal/rank"
	"pubgbot/internal/rolesync"

	"github.com/bwmarrin/discordgo"
)

func TestSyncMessagePartialCatalogFailure(t *testing.T) {
	tier := rank.Gold
	result := rolesync.Result{
		Outcome:         rolesync.PartialCatalogFailure,
		Tier:            &tier,
		Changed:         true,
		CatalogFailures: []rolesync.TierOutcome{{Tier: rank.Master, Err: errors.New("nope")}},
	}
	message := content(SyncMessage(result, nil, "shroud", "player"))
	if !strings.Contains(message, "Assigned **PUBG-Gold** to **player**") || !strings.Contains(message, "Could not create PUBG-Master") {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestSyncMessageFailedWithoutTier(t *testing.T) {
	message := content(SyncMessage(rolesync.Result{Outcome: rolesync.Failed}, errors.New("boom"), "shroud", "player"))
	if !strings.Contains(message, "Could not complete") {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestHelpMessageUsesPrefix(t *testing.T) {
	responses := HelpMessage("!pubg")
	embed, ok := responses[0].(ResponseEmbed)
	if !ok {
		t.Fatalf("expected an embed, got %T", responses[0])
	}
	for _, field := range embed.Fields {
		if !strings.HasPrefix(field.Name, "`!pubg ") {
			t.Fatalf("field %q does not use the prefix", field.Name)
		}
	}
}

func TestPingMessage(t *testing.T) {
	message := content(PingMessage(42*time.Millisecond, 0, errors.New("down")))
	if !strings.Contains(message, "`42ms`") || !strings.Contains(message, "unreachable") {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestInfoMessage(t *testing.T) {
	info := BotInfo{Memory: 3 * 1024 * 1024, Uptime: 90 * time.Minute, Version: "go1.25.1"}
	info.addGuilds([]*discordgo.Guild{
		{ID: "guild-1", MemberCount: 12, Channels: []*discordgo.Channel{{ID: "a"}, {ID: "b"}}},
		{ID: "guild-2", MemberCount: 30, Channels: []*discordgo.Channel{{ID: "c"}}},
	})
	if info.Servers != 2 || info.Channels != 3 || info.Users != 42 {
		t.Fatalf("unexpected info %+v", info)
	}

	responses := InfoMessage(info)
	embed, ok := responses[0].(ResponseEmbed)
	if !ok {
		t.Fatalf("expected an embed, got %T", responses[0])
	}
	fields := map[string]string{}
	for _, field := range embed.Fields {
		fields[field.Name] = field.Value
	}
	want := map[string]string{"Servers": "2", "Users": "42", "Channels": "3", "Mem Usage": "3.00 MB", "Uptime": "1h30m0s"}
	for name, value := range want {
		if fields[name] != value {
			t.Fatalf("field %s: expected %q, got %q", name, value, fields[name])
		}
	}
}
