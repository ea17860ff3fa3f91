package action

import "testing"

func TestParseActionListSimpleChain(t *testing.T) {
	actions, err := ParseActionList("toggle+down")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 2 || actions[0].Type != Toggle || actions[1].Type != Down {
		t.Fatalf("got %+v", actions)
	}
}

func TestParseActionListExecuteArgWithPlus(t *testing.T) {
	actions, err := ParseActionList("execute(echo a+b)+abort")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %+v", actions)
	}
	if actions[0].Type != Execute || actions[0].Arg != "echo a+b" {
		t.Errorf("got %+v", actions[0])
	}
	if actions[1].Type != Abort {
		t.Errorf("got %+v", actions[1])
	}
}

func TestParseActionListMissingExecuteArg(t *testing.T) {
	if _, err := ParseActionList("execute"); err == nil {
		t.Fatal("expected an error for execute without an argument")
	}
}

func TestParseActionListUnknownAction(t *testing.T) {
	if _, err := ParseActionList("not-a-real-action"); err == nil {
		t.Fatal("expected an error for an unrecognized action name")
	}
}

func TestParseActionListConditionalNestsSubchain(t *testing.T) {
	actions, err := ParseActionList("if-query-empty(abort)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Type != IfQueryEmpty {
		t.Fatalf("got %+v", actions)
	}
	if len(actions[0].Then) != 1 || actions[0].Then[0].Type != Abort {
		t.Fatalf("expected nested [Abort], got %+v", actions[0].Then)
	}
}

func TestParseActionListCaseInsensitive(t *testing.T) {
	actions, err := ParseActionList("ACCEPT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Type != Accept {
		t.Fatalf("got %+v", actions)
	}
}

func TestParseBindAppliesToKeymap(t *testing.T) {
	km := DefaultKeymap()
	if err := ParseBind(km, "ctrl-x:execute(rm -rf /tmp/x),ctrl-y:abort"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(km["ctrl-x"]) != 1 || km["ctrl-x"][0].Type != Execute {
		t.Fatalf("got %+v", km["ctrl-x"])
	}
	if len(km["ctrl-y"]) != 1 || km["ctrl-y"][0].Type != Abort {
		t.Fatalf("got %+v", km["ctrl-y"])
	}
}

func TestParseBindCommaInsideParensNotSplit(t *testing.T) {
	km := make(Keymap)
	err := ParseBind(km, "ctrl-x:execute(echo a,b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if km["ctrl-x"][0].Arg != "echo a,b" {
		t.Errorf("got %q", km["ctrl-x"][0].Arg)
	}
}

func TestParseBindLaterPairReplacesEarlier(t *testing.T) {
	km := make(Keymap)
	if err := ParseBind(km, "ctrl-x:abort,ctrl-x:accept"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(km["ctrl-x"]) != 1 || km["ctrl-x"][0].Type != Accept {
		t.Fatalf("expected the later binding to win, got %+v", km["ctrl-x"])
	}
}

func TestParseBindMissingColonIsError(t *testing.T) {
	km := make(Keymap)
	if err := ParseBind(km, "ctrl-x"); err == nil {
		t.Fatal("expected an error for a key with no action")
	}
}

func TestDefaultKeymapHasCoreBindings(t *testing.T) {
	km := DefaultKeymap()
	for _, key := range []string{"ctrl-c", "enter", "up", "down", "tab"} {
		if _, ok := km[key]; !ok {
			t.Errorf("expected a default binding for %q", key)
		}
	}
}

func TestCloneIsIndependentCopy(t *testing.T) {
	km := DefaultKeymap()
	clone := km.Clone()
	clone["ctrl-c"] = []Action{simple(Accept)}
	if km["ctrl-c"][0].Type != Abort {
		t.Fatal("expected mutating the clone not to affect the original keymap")
	}
}
