package console

import (
	"erpdesk/internal/document"
)

// Viewer shows documents and inbox items in the authoring surface.
type Viewer struct {
	ws *Workspace
}

// Show loads rec's body into the surface and selects it for printing.
// Records without a body clear the surface.
func (v *Viewer) Show(rec document.Viewable) error {
	body, ok := rec.Body()
	if !ok {
		body = ""
	}
	if err := v.ws.surface.SetContent(body); err != nil {
		return err
	}
	v.ws.setSelected(rec)
	return nil
}
