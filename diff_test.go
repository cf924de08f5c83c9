package goloc

import "testing"

func unit(id, text, context string) TextNode {
	return TextNode{
		ID:      id,
		Text:    text,
		Hash:    HashText(text),
		Kind:    "markup",
		Context: context,
	}
}

func TestDiff(t *testing.T) {
	oldNodes := []TextNode{
		unit("node-0", "Hello", ""),
		unit("node-1", "Goodbye", ""),
	}
	newNodes := []TextNode{
		unit("node-0", "Hello", ""),
		unit("node-1", "Welcome", ""),
	}

	result := Diff(oldNodes, newNodes)
	stats := result.Stats()

	if stats.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", stats.Unchanged)
	}
	if stats.Removed != 1 || result.Removed[0].Text != "Goodbye" {
		t.Errorf("Removed = %+v, want Goodbye", result.Removed)
	}
	if stats.Added != 1 || result.Added[0].Text != "Welcome" {
		t.Errorf("Added = %+v, want Welcome", result.Added)
	}
	if !result.HasChanges() {
		t.Error("expected HasChanges")
	}
}

func TestDiff_Identical(t *testing.T) {
	nodes := []TextNode{unit("node-0", "Hello", "")}

	result := Diff(nodes, nodes)
	if result.HasChanges() {
		t.Errorf("expected no changes, got %+v", result.Stats())
	}
	if len(result.Unchanged) != 1 {
		t.Errorf("Unchanged = %d, want 1", len(result.Unchanged))
	}
}

func TestDiffWithContext_DetectsModification(t *testing.T) {
	oldNodes := []TextNode{unit("node-0", "Shop Now", `in <button class="cta">`)}
	newNodes := []TextNode{unit("node-0", "Buy Now", `in <button class="cta">`)}

	result := DiffWithContext(oldNodes, newNodes)
	stats := result.Stats()

	if stats.Modified != 1 {
		t.Fatalf("Modified = %d, want 1", stats.Modified)
	}
	if stats.Added != 0 || stats.Removed != 0 {
		t.Errorf("expected matched pair to leave Added/Removed empty, got %+v", stats)
	}

	m := result.Modified[0]
	if m.Old.Text != "Shop Now" || m.New.Text != "Buy Now" {
		t.Errorf("Modified pair = %q -> %q", m.Old.Text, m.New.Text)
	}
}

func TestDiffWithContext_UnrelatedStayApart(t *testing.T) {
	oldNodes := []TextNode{unit("node-0", "Shop Now", `in <button>`)}
	newNodes := []TextNode{unit("node-5", "Contact us", `in <a class="footer">`)}

	result := DiffWithContext(oldNodes, newNodes)
	stats := result.Stats()

	if stats.Modified != 0 {
		t.Errorf("Modified = %d, want 0", stats.Modified)
	}
	if stats.Added != 1 || stats.Removed != 1 {
		t.Errorf("expected distinct add/remove, got %+v", stats)
	}
}

func TestNeedsTranslation(t *testing.T) {
	result := &DiffResult{
		Added: []TextNode{unit("node-3", "New text", "")},
		Modified: []ModifiedNode{{
			Old: unit("node-0", "Old text", "in <p>"),
			New: unit("node-0", "Changed text", "in <p>"),
		}},
		Unchanged: []TextNode{unit("node-1", "Stable", "")},
	}

	needs := result.NeedsTranslation()
	if len(needs) != 2 {
		t.Fatalf("expected 2 units, got %d", len(needs))
	}
	if needs[0].Text != "New text" || needs[1].Text != "Changed text" {
		t.Errorf("NeedsTranslation = %+v", needs)
	}
}
