package decision

import (
	"testing"

	"github.com/roach88/megac/internal/testutil"
)

func TestPrint_Golden(t *testing.T) {
	g := newGoldie(t)

	g.Assert(t, "procedure_machine", []byte(Sprint(compile(t, testutil.MachineModel(t), "Machine.Go"))))
	g.Assert(t, "procedure_door", []byte(Sprint(compile(t, testutil.DoorModel(t), "Door.Push"))))
	g.Assert(t, "procedure_lamp", []byte(Sprint(compile(t, testutil.LampModel(t), "Lamp.On"))))
}
