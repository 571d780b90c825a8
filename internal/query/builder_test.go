package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Term
	}{
		{name: "empty", raw: "", want: Term{Kind: TermNone}},
		{name: "blank", raw: "   ", want: Term{Kind: TermNone}},
		{name: "integer", raw: "42", want: Term{Kind: TermID, ID: 42, Text: "42"}},
		{name: "padded integer", raw: " 7 ", want: Term{Kind: TermID, ID: 7, Text: "7"}},
		{name: "negative integer", raw: "-3", want: Term{Kind: TermID, ID: -3, Text: "-3"}},
		{name: "text", raw: "Fireball", want: Term{Kind: TermText, Text: "Fireball"}},
		{name: "decimal is text", raw: "1.5", want: Term{Kind: TermText, Text: "1.5"}},
		{name: "mixed", raw: "42 Foo", want: Term{Kind: TermText, Text: "42 Foo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTerm(tt.raw))
		})
	}
}

func TestTermPredicateDispatch(t *testing.T) {
	assert.Nil(t, ParseTerm(" ").Predicate("entry", "name"))

	idPred := ParseTerm("42").Predicate("entry", "name")
	assert.Equal(t, Equality{Column: "entry", Value: 42}, idPred)

	textPred := ParseTerm("Foo").Predicate("entry", "name")
	assert.Equal(t, Substring{Column: "name", Term: "Foo"}, textPred)
}

func TestSelectBuild(t *testing.T) {
	page := Page{Number: 3, Limit: 20}

	tests := []struct {
		name      string
		where     []Predicate
		wantData  string
		wantCount string
		wantArgs  []any
	}{
		{
			name:      "no predicates",
			wantData:  "SELECT entry, name FROM item_template ORDER BY name LIMIT ? OFFSET ?",
			wantCount: "SELECT COUNT(*) FROM item_template",
			wantArgs:  nil,
		},
		{
			name:      "nil predicates are skipped",
			where:     []Predicate{nil, Equality{Column: "class", Value: 2}, nil},
			wantData:  "SELECT entry, name FROM item_template WHERE class = ? ORDER BY name LIMIT ? OFFSET ?",
			wantCount: "SELECT COUNT(*) FROM item_template WHERE class = ?",
			wantArgs:  []any{2},
		},
		{
			name: "application order is kept",
			where: []Predicate{
				Substring{Column: "name", Term: "Sword"},
				Equality{Column: "class", Value: 2},
				Range{Column: "RequiredLevel", Bound: AtLeast, Value: 10},
				Range{Column: "RequiredLevel", Bound: AtMost, Value: 20},
			},
			wantData:  "SELECT entry, name FROM item_template WHERE LOWER(name) LIKE ? AND class = ? AND RequiredLevel >= ? AND RequiredLevel <= ? ORDER BY name LIMIT ? OFFSET ?",
			wantCount: "SELECT COUNT(*) FROM item_template WHERE LOWER(name) LIKE ? AND class = ? AND RequiredLevel >= ? AND RequiredLevel <= ?",
			wantArgs:  []any{"%sword%", 2, 10, 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelect("item_template", "entry", "name").Where(tt.where...).OrderBy("name")
			data, count := sel.Build(page)

			assert.Equal(t, tt.wantData, data.SQL)
			assert.Equal(t, tt.wantCount, count.SQL)
			assert.NotContains(t, count.SQL, "ORDER BY")
			assert.NotContains(t, count.SQL, "LIMIT")

			wantCountArgs := tt.wantArgs
			if wantCountArgs == nil {
				wantCountArgs = []any{}
			}
			assert.Equal(t, wantCountArgs, count.Args)
			assert.Equal(t, append(append([]any{}, tt.wantArgs...), 20, 40), data.Args)
		})
	}
}

func TestSelectOne(t *testing.T) {
	stmt := NewSelect("spell_template", "Id", "SpellName").Where(Equality{Column: "Id", Value: 133}).One()
	assert.Equal(t, "SELECT Id, SpellName FROM spell_template WHERE Id = ? LIMIT 1", stmt.SQL)
	assert.Equal(t, []any{133}, stmt.Args)
}

func TestSelectAll(t *testing.T) {
	stmt := NewSelect("account", "id", "username").
		Where(In{Column: "id", Values: []any{4, 9}}).
		OrderBy("id").
		All()
	assert.Equal(t, "SELECT id, username FROM account WHERE id IN (?, ?) ORDER BY id", stmt.SQL)
	assert.Equal(t, []any{4, 9}, stmt.Args)
}

func TestInPredicate(t *testing.T) {
	cond, args := In{Column: "id", Values: []any{1, 2, 3}}.render()
	assert.Equal(t, "id IN (?, ?, ?)", cond)
	assert.Equal(t, []any{1, 2, 3}, args)

	cond, args = In{Column: "id"}.render()
	assert.Equal(t, "1 = 0", cond)
	assert.Empty(t, args)
}

func TestUpdateBuild(t *testing.T) {
	_, err := NewUpdate("characters", Equality{Column: "guid", Value: 9}).Build()
	assert.ErrorIs(t, err, ErrNoAssignments)

	stmt, err := NewUpdate("characters", Equality{Column: "guid", Value: 9}).
		Set("level", 60).
		Set("money", 1000).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE characters SET level = ?, money = ? WHERE guid = ?", stmt.SQL)
	assert.Equal(t, []any{60, 1000, 9}, stmt.Args)
}
