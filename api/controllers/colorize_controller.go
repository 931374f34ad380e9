package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/middlewares"
	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/intake"
	"github.com/chroma-ai/chroma-web/notify"
	"github.com/chroma-ai/chroma-web/params"
	"github.com/chroma-ai/chroma-web/present"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
	"github.com/chroma-ai/chroma-web/workspace"
)

type widgetView struct {
	Field string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
}

type modelOption struct {
	Value    string
	Label    string
	Selected bool
}

func currentWorkspace(c *gin.Context) *workspace.Workspace {
	return models.GetRegistry().Get(middlewares.ClientID(c))
}

// HandleColorizePage renders the upload, settings and result areas.
func HandleColorizePage(c *gin.Context) {
	snap := currentWorkspace(c).Snapshot()
	c.HTML(http.StatusOK, "colorize.html", colorizeData(c, snap))
}

// HandleState returns the workspace snapshot and its presentation as JSON.
func HandleState(c *gin.Context) {
	respondState(c, http.StatusOK, currentWorkspace(c))
}

func colorizeData(c *gin.Context, snap workspace.Snapshot) gin.H {
	data := pageData(c, "Colorize", "colorize")
	view := buildView(snap)

	data["kind"] = string(view.Kind)
	if view.Original != nil {
		data["original"] = view.Original
	}
	if view.Colorized != nil {
		data["colorized"] = view.Colorized
	}
	data["loadingTitle"] = present.LoadingTitle
	data["loadingText"] = present.LoadingText
	data["errorTitle"] = present.ErrorTitle
	data["errorText"] = present.ErrorText
	data["emptyText"] = present.EmptyText

	data["isLoading"] = snap.IsLoading
	data["hasFile"] = snap.HasFile
	data["fileName"] = snap.FileName
	data["fileSizeKB"] = strconv.FormatFloat(float64(snap.FileSize)/1024, 'f', 2, 64)
	data["error"] = snap.Error
	data["warning"] = snap.Warning
	data["intakeError"] = snap.IntakeError
	data["inputKey"] = snap.InputKey
	data["maxMB"] = snap.MaxMB
	data["accept"] = strings.Join(intake.AllowedTypes, ",")
	data["canSubmit"] = snap.HasFile && !snap.IsLoading
	data["submitLabel"] = "Colorize Image"
	if snap.IsLoading {
		data["submitLabel"] = "Colorizing..."
	}

	p := snap.Params
	data["autoColorCorrect"] = p.AutoColorCorrect
	opts := make([]modelOption, 0, len(params.Models))
	for _, m := range params.Models {
		opts = append(opts, modelOption{Value: string(m), Label: m.Label(), Selected: m == p.ModelChoice})
	}
	data["models"] = opts
	values := map[string]float64{
		params.DetailWidget.Field:     p.DetailEnhancement,
		params.IntensityWidget.Field:  p.Intensity,
		params.HueWidget.Field:        float64(p.HueShift),
		params.SaturationWidget.Field: p.SaturationScale,
	}
	widgets := make([]widgetView, 0, len(params.Widgets))
	for _, w := range params.Widgets {
		widgets = append(widgets, widgetView{
			Field: w.Field,
			Label: w.Label,
			Min:   formatNumber(w.Min),
			Max:   formatNumber(w.Max),
			Step:  formatNumber(w.Step),
			Value: formatNumber(values[w.Field]),
		})
	}
	data["widgets"] = widgets
	return data
}

func buildView(snap workspace.Snapshot) present.View {
	return present.Build(present.Input{
		IsLoading:    snap.IsLoading,
		IsError:      snap.Error != "",
		OriginalURL:  resolveBackend(snap.OriginalURL),
		ColorizedURL: resolveBackend(snap.ColorizedURL),
	})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// respondState redirects browsers back to the page and answers JSON clients with the state.
func respondState(c *gin.Context, status int, ws *workspace.Workspace) {
	if c.Request.Method != http.MethodGet && !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/colorize")
		return
	}
	snap := ws.Snapshot()
	c.JSON(status, gin.H{
		"state": snap,
		"view":  buildView(snap),
	})
}

func respondWorkspaceError(c *gin.Context, ws *workspace.Workspace, err error) {
	switch {
	case errors.Is(err, workspace.ErrBusy), errors.Is(err, workspace.ErrSubmitInProgress):
		respondState(c, http.StatusConflict, ws)
	case errors.Is(err, workspace.ErrNoFile):
		respondState(c, http.StatusBadRequest, ws)
	case errors.Is(err, workspace.ErrClosed):
		c.JSON(http.StatusGone, tool.FastReturnError("Session expired. Please reload the page."))
	default:
		tool.DefaultLogger.Errorf("[Colorize] %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
	}
}

// uploadSlack leaves room for the multipart framing around the file.
const uploadSlack = 1 << 20

// sniffLen is how much of an oversize file is read, enough to resolve its type.
const sniffLen = 512

// HandleSelectFile accepts the picked image into the workspace. An empty pick clears the
// current selection.
func HandleSelectFile(c *gin.Context) {
	ws := currentWorkspace(c)
	maxMB := tool.GetCurrentConfig().MaxUploadMB
	maxBytes := int64(maxMB) * 1024 * 1024

	if c.Request.ContentLength > maxBytes+uploadSlack {
		rejectOversize(c, ws, maxMB)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+uploadSlack)

	fh, err := c.FormFile(types.FieldImageFile)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			rejectOversize(c, ws, maxMB)
		case errors.Is(err, http.ErrMissingFile):
			if err := ws.RemoveFile(); err != nil {
				respondWorkspaceError(c, ws, err)
				return
			}
			respondState(c, http.StatusOK, ws)
		default:
			respondState(c, http.StatusBadRequest, ws)
		}
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read uploaded file"))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close uploaded file: %v", err)
		}
	}()
	limit := fh.Size
	if fh.Size > maxBytes {
		// rejected on size anyway, only the head is needed for the type check
		limit = sniffLen
	}
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read uploaded file"))
		return
	}

	in := types.FileInput{
		FileName: fh.Filename,
		FileType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Data:     data,
	}
	if _, err := ws.SelectFile(in); err != nil {
		var rej *intake.Rejection
		if errors.As(err, &rej) {
			tool.DefaultLogger.Infof("[Intake] rejected %s: %s", fh.Filename, rej.Reason)
			respondState(c, http.StatusUnprocessableEntity, ws)
			return
		}
		respondWorkspaceError(c, ws, err)
		return
	}
	respondState(c, http.StatusOK, ws)
}

func rejectOversize(c *gin.Context, ws *workspace.Workspace, maxMB int) {
	if err := ws.RejectFile(intake.TooLarge(maxMB)); err != nil {
		respondWorkspaceError(c, ws, err)
		return
	}
	tool.DefaultLogger.Infof("[Intake] rejected upload of %d bytes over the body limit", c.Request.ContentLength)
	respondState(c, http.StatusRequestEntityTooLarge, ws)
}

func HandleRemoveFile(c *gin.Context) {
	ws := currentWorkspace(c)
	if err := ws.RemoveFile(); err != nil {
		respondWorkspaceError(c, ws, err)
		return
	}
	respondState(c, http.StatusOK, ws)
}

// HandleSetParams applies the settings form. Values are bounded by their widgets.
func HandleSetParams(c *gin.Context) {
	ws := currentWorkspace(c)
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid form"))
		return
	}
	next := params.ParseForm(c.Request.PostForm, ws.Params())
	if err := ws.SetParams(next); err != nil {
		respondWorkspaceError(c, ws, err)
		return
	}
	respondState(c, http.StatusOK, ws)
}

func HandleResetParams(c *gin.Context) {
	ws := currentWorkspace(c)
	if err := ws.ResetParams(); err != nil {
		respondWorkspaceError(c, ws, err)
		return
	}
	respondState(c, http.StatusOK, ws)
}

func hasParamFields(form url.Values) bool {
	if form.Has(types.FieldModelChoice) || form.Has(types.FieldAutoColorCorrect+"_present") {
		return true
	}
	for _, w := range params.Widgets {
		if form.Has(w.Field) {
			return true
		}
	}
	return false
}

// HandleSubmit starts the colorization job and returns at once. The outcome lands in the
// workspace and is announced on /events.
func HandleSubmit(c *gin.Context) {
	clientID := middlewares.ClientID(c)
	ws := currentWorkspace(c)
	// the page posts its settings form along with the submit, so what is shown is what is sent
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid form"))
		return
	}
	if hasParamFields(c.Request.PostForm) {
		if err := ws.SetParams(params.ParseForm(c.Request.PostForm, ws.Params())); err != nil {
			respondWorkspaceError(c, ws, err)
			return
		}
	}
	ticket, err := ws.BeginSubmit()
	if err != nil {
		respondWorkspaceError(c, ws, err)
		return
	}
	if err := notify.SendWorkspaceEvent(clientID, types.NotifyTypeColorizeStarted, ticket.Payload.FileName, nil); err != nil {
		tool.DefaultLogger.Debugf("[Colorize] notify skipped: %v", err)
	}
	go runJob(clientID, ws, ticket)
	respondState(c, http.StatusAccepted, ws)
}

func runJob(clientID string, ws *workspace.Workspace, ticket workspace.Ticket) {
	jobID := tool.GenerateShortID()
	timeout := time.Duration(tool.GetCurrentConfig().RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = tool.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tool.DefaultLogger.Infof("[Colorize] job %s started for %s", jobID, clientID)
	res, cerr := models.GetColorizer().Colorize(ctx, ticket.Payload)
	if !ws.CompleteSubmit(ticket, res, cerr) {
		tool.DefaultLogger.Infof("[Colorize] job %s finished after reset, result dropped", jobID)
		return
	}
	data := map[string]any{"ok": cerr == nil}
	if err := notify.SendWorkspaceEvent(clientID, types.NotifyTypeColorizeFinished, "", data); err != nil {
		tool.DefaultLogger.Debugf("[Colorize] notify skipped: %v", err)
	}
	tool.DefaultLogger.Infof("[Colorize] job %s finished (ok=%t)", jobID, cerr == nil)
}

// HandleResetPage starts over. An in-flight job keeps running but its result is dropped.
func HandleResetPage(c *gin.Context) {
	clientID := middlewares.ClientID(c)
	ws := currentWorkspace(c)
	if err := ws.ResetPage(); err != nil {
		respondWorkspaceError(c, ws, err)
		return
	}
	if err := notify.SendWorkspaceEvent(clientID, types.NotifyTypeWorkspaceReset, "", nil); err != nil {
		tool.DefaultLogger.Debugf("[Colorize] notify skipped: %v", err)
	}
	respondState(c, http.StatusOK, ws)
}
