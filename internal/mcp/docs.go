package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `recontrack tracks used vehicles through dealership reconditioning.

Pipeline (fixed order): New Arrival -> Mechanical -> Detailing -> Photos -> Title -> Lot Ready -> Sold.

Core rules:
- A vehicle's status is derived from its workflow; never set it directly.
- Mechanical has three sub-steps: email-sent, vehicle-pickup, vehicle-returned. Mechanical is complete exactly when all three are.
- Title has a separate in-house flag. Setting it true completes Title; setting it false leaves Title as it was.
- Lot Ready is gated: Mechanical, Detailing and Photos complete and the title in-house. Use check_lot_ready, then advance_to_lot_ready.
- Stages may be completed out of order; status reflects the earliest unfinished work.

Typical loop:
1) Orient: get_pipeline_report or list_vehicles with in_recon_only.
2) Inspect: get_vehicle or get_timeline.
3) Act: set_substep / set_stage / set_title_in_house, then advance_to_lot_ready when eligible.

Errors come back as JSON with code, message and recovery_hint. NOT_ELIGIBLE includes details.missing.

Docs:
- recon://docs/workflow
- recon://docs/lot-ready
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "recon://docs/workflow",
		Name:        "docs_workflow",
		Title:       "Reconditioning workflow",
		Description: "Stages, sub-steps and how status is derived.",
		Content: `# Reconditioning workflow

Every vehicle carries one workflow record with seven stages. Each stage has
` + "`completed`" + `, ` + "`completedAt`" + ` and ` + "`notes`" + `.

| Stage | Notes |
|---|---|
| New Arrival | Completed at intake, dated to the intake date. |
| Mechanical | Driven by three sub-steps; cannot be set against them. |
| Detailing | Plain stage. |
| Photos | Plain stage. |
| Title | Also carries ` + "`titleInHouse`" + `. |
| Lot Ready | Only through ` + "`advance_to_lot_ready`" + `. |
| Sold | Marks the vehicle out of inventory. |

## Status

Status is recomputed after every change:

1. Sold completed -> Sold.
2. Lot Ready completed -> Lot Ready.
3. Mechanical, Detailing and Photos all complete -> Title.
4. Otherwise the first unfinished of Mechanical, Detailing, Photos.
5. A vehicle with no progress past arrival stays New Arrival.

## Mechanical sub-steps

- ` + "`email-sent`" + `: service department notified.
- ` + "`vehicle-pickup`" + `: vehicle picked up for service.
- ` + "`vehicle-returned`" + `: vehicle back from service.

Completing the last one completes Mechanical; reverting any reopens it.
`,
	},
	{
		URI:         "recon://docs/lot-ready",
		Name:        "docs_lot_ready",
		Title:       "Lot Ready gate",
		Description: "What a vehicle needs before it can be put on the lot.",
		Content: `# Lot Ready gate

A vehicle can advance when all of these hold:

- Mechanical complete (all three sub-steps)
- Detailing complete
- Photos complete
- Title in-house

` + "`check_lot_ready`" + ` returns ` + "`{eligible, missing}`" + ` without changing anything.
` + "`advance_to_lot_ready`" + ` either completes Lot Ready, stamps the date out and
returns the vehicle, or fails with NOT_ELIGIBLE listing the same missing items.
Calling it again on a Lot Ready vehicle changes nothing.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
