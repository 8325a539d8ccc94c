package notify

import "testing"

type recording struct {
	messages []string
	sounds   []int
}

func (r *recording) PrintMessage(text string) { r.messages = append(r.messages, text) }
func (r *recording) PlaySound(soundID int)    { r.sounds = append(r.sounds, soundID) }

func TestMultiFansOut(t *testing.T) {
	a := &recording{}
	b := &recording{}
	m := Multi{a, b}

	m.PrintMessage("light detected")
	m.PlaySound(3)

	for _, r := range []*recording{a, b} {
		if len(r.messages) != 1 || r.messages[0] != "light detected" {
			t.Fatalf("messages = %v", r.messages)
		}
		if len(r.sounds) != 1 || r.sounds[0] != 3 {
			t.Fatalf("sounds = %v", r.sounds)
		}
	}
}

func TestMultiEmpty(t *testing.T) {
	var m Multi
	m.PrintMessage("x")
	m.PlaySound(1)
}
