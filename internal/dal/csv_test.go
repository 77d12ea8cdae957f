package dal

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `player_name,position,team,bye_week,overall
Justin Jefferson,WR,MIN,6,3
Christian McCaffrey,RB,SF,9,1
Retired Guy,RB,FA,,
Bijan Robinson,RB,ATL,5,4
Tyreek Hill,WR,MIA,6,2
Tie Breaker,TE,KC,10,4
Negative Rank,QB,BUF,7,-5
Spaced Rank,QB,KC,10, 8
Decimal Rank,K,DAL,7,8.5
`

func TestParseCSVFiltersAndSorts(t *testing.T) {
	players, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}

	want := []string{"Christian McCaffrey", "Tyreek Hill", "Justin Jefferson", "Bijan Robinson", "Tie Breaker"}
	if len(players) != len(want) {
		t.Fatalf("expected %d players, got %d: %+v", len(want), len(players), players)
	}
	for i, name := range want {
		if players[i].Name != name {
			t.Errorf("players[%d] = %q, want %q", i, players[i].Name, name)
		}
	}

	first := players[0]
	if first.Position != "RB" || first.Team != "SF" || first.ByeWeek != "9" || first.Overall != 1 {
		t.Errorf("unexpected first player: %+v", first)
	}
}

func TestParseCSVHugeRankSortsLast(t *testing.T) {
	data := "player_name,position,team,bye_week,overall\nDeep Sleeper,WR,NYJ,9,99999999999999999999999\nTop Pick,RB,SF,9,1\n"
	players, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d: %+v", len(players), players)
	}
	if players[0].Name != "Top Pick" || players[1].Name != "Deep Sleeper" {
		t.Errorf("unexpected order: %+v", players)
	}
	if players[1].Overall != math.MaxInt {
		t.Errorf("expected saturated rank, got %d", players[1].Overall)
	}
}

func TestParseCSVColumnOrderIndependent(t *testing.T) {
	data := "overall,team,player_name,bye_week,position,extra\n2,KC,Patrick Mahomes,10,QB,x\n1,PHI,Jalen Hurts,5,QB,y\n"
	players, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if len(players) != 2 || players[0].Name != "Jalen Hurts" || players[1].Team != "KC" {
		t.Errorf("unexpected players: %+v", players)
	}
}

func TestParseCSVShortRows(t *testing.T) {
	data := "player_name,position,team,bye_week,overall\nShort Row,RB\nFull Row,WR,NYG,11,7\n"
	players, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if len(players) != 1 || players[0].Name != "Full Row" {
		t.Errorf("expected only the full row, got %+v", players)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing overall", "player_name,position,team,bye_week\nA,QB,KC,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCSVDALLoadPlayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewCSVDAL(path)
	defer d.Close()

	players, err := d.LoadPlayers(context.Background())
	if err != nil {
		t.Fatalf("LoadPlayers() failed: %v", err)
	}
	if len(players) != 5 {
		t.Errorf("expected 5 players, got %d", len(players))
	}

	missing := NewCSVDAL(filepath.Join(t.TempDir(), "nope.csv"))
	if _, err := missing.LoadPlayers(context.Background()); err == nil {
		t.Error("expected an error for a missing file")
	}
}
