package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/attendance"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/auth"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/config"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/feedback"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/holiday"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/insights"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/roster"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/scan"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/teacher"
)

// Handler wires the HTTP API to the domain services.
type Handler struct {
	cfg       config.App
	teachers  teacher.Store
	roster    *roster.Service
	records   attendance.RecordStore
	committer *attendance.Committer
	sessions  *attendance.Registry
	holidays  *holiday.Service
	insights  *insights.Client
	verifier  *auth.GoogleVerifier
}

// New creates a handler.
func New(
	cfg config.App,
	teachers teacher.Store,
	rosterSvc *roster.Service,
	records attendance.RecordStore,
	committer *attendance.Committer,
	sessions *attendance.Registry,
	holidays *holiday.Service,
	llm *insights.Client,
	verifier *auth.GoogleVerifier,
) *Handler {
	return &Handler{
		cfg:       cfg,
		teachers:  teachers,
		roster:    rosterSvc,
		records:   records,
		committer: committer,
		sessions:  sessions,
		holidays:  holidays,
		insights:  llm,
		verifier:  verifier,
	}
}

// ---------- Auth ----------

// GoogleLogin exchanges a Google ID token for a service token pair,
// creating the teacher profile on first sign-in.
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.verifier.Verify(req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid google id token"})
		return
	}

	t, err := h.teachers.UpsertByGoogleID(c.Request.Context(), identity.Sub, identity.Email, identity.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tokens, err := auth.Issue(t.ID, "teacher", h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := h.teachers.SaveRefreshToken(c.Request.Context(), t.ID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		log.Printf("save refresh token failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"teacher":       t,
	})
}

// Refresh rotates a refresh token into a new pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := auth.Parse(req.RefreshToken, h.cfg.JWTSigningKey, h.cfg.JWTIssuer); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	teacherID, err := h.teachers.RefreshTokenTeacher(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired or revoked"})
		return
	}

	tokens, err := auth.Issue(teacherID, "teacher", h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	_ = h.teachers.RevokeRefreshToken(c.Request.Context(), req.RefreshToken)
	if err := h.teachers.SaveRefreshToken(c.Request.Context(), teacherID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		log.Printf("save refresh token failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// Me returns the teacher's profile.
func (h *Handler) Me(c *gin.Context) {
	t, err := h.teachers.Get(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, teacher.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateMe edits the teacher's profile.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		School string `json:"school"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.teachers.UpdateProfile(c.Request.Context(), auth.TeacherID(c), req.Name, req.School)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Class   string `json:"class" binding:"required"`
		Section string `json:"section" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.roster.Create(c.Request.Context(), auth.TeacherID(c), req.Name, req.Class, req.Section)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Class   string `json:"class" binding:"required"`
		Section string `json:"section" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.roster.Update(c.Request.Context(), auth.TeacherID(c), c.Param("id"), req.Name, req.Class, req.Section)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, roster.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// ImportStudents accepts a multipart CSV upload. Row failures are
// returned alongside the imported students; they never abort the batch.
func (h *Handler) ImportStudents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	defer file.Close()

	result, err := h.roster.ImportCSV(c.Request.Context(), auth.TeacherID(c), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if result.Imported == nil {
		result.Imported = []roster.Student{}
	}
	if result.Errors == nil {
		result.Errors = []roster.ImportRowError{}
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": result.Imported,
		"errors":   result.Errors,
		"count":    len(result.Imported),
	})
}

// RequestStudentQR re-enqueues the QR credential render.
func (h *Handler) RequestStudentQR(c *gin.Context) {
	st, err := h.roster.RequestQRRender(c.Request.Context(), auth.TeacherID(c), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, roster.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"student_code": st.Code, "qr_code_url": st.QRCodeURL})
}

// ---------- Scan sessions ----------

// OpenScanSession snapshots the roster and today's marks into a new
// session. The snapshot is not refreshed until the client opens a new
// session.
func (h *Handler) OpenScanSession(c *gin.Context) {
	teacherID := auth.TeacherID(c)
	day := attendance.Today()

	codes, err := h.roster.Codes(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	marked, err := h.records.MarkedCodes(c.Request.Context(), teacherID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s := attendance.NewSession(teacherID, day, codes, marked)
	h.sessions.Open(s)

	c.JSON(http.StatusCreated, gin.H{
		"session_id":  s.ID,
		"date":        s.Day,
		"roster_size": len(codes),
		"marked":      len(marked),
		"cooldown_ms": int(h.committer.Cooldown() / time.Millisecond),
	})
}

// Scan processes one emission from any transport.
func (h *Handler) Scan(c *gin.Context) {
	var req struct {
		Transport string `json:"transport" binding:"required"`
		Payload   string `json:"payload" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.sessions.Get(c.Param("id"), auth.TeacherID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	transport, err := scan.ParseTransport(req.Transport)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, err := scan.Decode(transport, req.Payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"outcome": "bad_payload", "error": err.Error()})
		return
	}

	outcome := h.committer.Commit(s, code)
	c.JSON(http.StatusOK, gin.H{
		"outcome": outcome,
		"code":    code,
		"signal":  feedback.ForOutcome(outcome, h.committer.Cooldown()),
		"marked":  s.MarkedCount(),
		"notices": s.DrainNotices(),
	})
}

// CloseScanSession tears down the session. In-flight persists complete
// on their own.
func (h *Handler) CloseScanSession(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id"), auth.TeacherID(c)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Attendance views ----------

func (h *Handler) DayAttendance(c *gin.Context) {
	teacherID := auth.TeacherID(c)
	day := c.DefaultQuery("date", attendance.Today())
	if _, err := time.Parse(attendance.DayFormat, day); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad date, want YYYY-MM-DD"})
		return
	}

	students, err := h.roster.List(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	records, err := h.records.ListByDay(c.Request.Context(), teacherID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "students": attendance.DayOverview(students, records)})
}

func (h *Handler) AttendanceHistory(c *gin.Context) {
	teacherID := auth.TeacherID(c)
	to := c.DefaultQuery("to", attendance.Today())
	from := c.DefaultQuery("from", defaultFrom(to))
	for _, d := range []string{from, to} {
		if _, err := time.Parse(attendance.DayFormat, d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad date, want YYYY-MM-DD"})
			return
		}
	}
	records, err := h.records.ListRange(c.Request.Context(), teacherID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "records": records})
}

// MarkLeave records an on-leave day for a student. Unlike scans this is
// a synchronous write with an existence check against the store.
func (h *Handler) MarkLeave(c *gin.Context) {
	var req struct {
		StudentCode string `json:"student_code" binding:"required"`
		Date        string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse(attendance.DayFormat, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad date, want YYYY-MM-DD"})
		return
	}

	teacherID := auth.TeacherID(c)
	codes, err := h.roster.Codes(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	known := false
	for _, code := range codes {
		if code == req.StudentCode {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not on your roster"})
		return
	}

	exists, err := h.records.HasRecord(c.Request.Context(), teacherID, req.StudentCode, req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "student already has a record for that date"})
		return
	}

	rec, err := h.records.InsertRecord(c.Request.Context(), attendance.Record{
		TeacherID:   teacherID,
		StudentCode: req.StudentCode,
		Day:         req.Date,
		Status:      attendance.StatusOnLeave,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ExportDay streams the daily CSV export.
func (h *Handler) ExportDay(c *gin.Context) {
	teacherID := auth.TeacherID(c)
	day := c.DefaultQuery("date", attendance.Today())
	if _, err := time.Parse(attendance.DayFormat, day); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad date, want YYYY-MM-DD"})
		return
	}

	students, err := h.roster.List(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	records, err := h.records.ListByDay(c.Request.Context(), teacherID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="attendance-`+day+`.csv"`)
	if err := attendance.WriteDayCSV(c.Writer, day, students, records); err != nil {
		log.Printf("csv export failed: %v", err)
	}
}

// ---------- Holidays ----------

func (h *Handler) ListHolidays(c *gin.Context) {
	hs, err := h.holidays.List(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if hs == nil {
		hs = []holiday.Holiday{}
	}
	c.JSON(http.StatusOK, hs)
}

func (h *Handler) CreateHoliday(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		From string `json:"from" binding:"required"`
		To   string `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hs, err := h.holidays.CreateRange(c.Request.Context(), auth.TeacherID(c), req.Name, req.From, req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, hs)
}

// DeleteHoliday removes the whole range the target day belongs to.
func (h *Handler) DeleteHoliday(c *gin.Context) {
	n, err := h.holidays.Delete(c.Request.Context(), auth.TeacherID(c), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, holiday.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// ---------- Insights ----------

// AbsenteeismSummary forwards the full history to the language model and
// returns its prose verbatim.
func (h *Handler) AbsenteeismSummary(c *gin.Context) {
	teacherID := auth.TeacherID(c)
	records, err := h.records.ListAll(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctxRecords := make([]insights.RecordContext, 0, len(records))
	for _, rec := range records {
		ctxRecords = append(ctxRecords, insights.RecordContext{
			StudentID: rec.StudentCode,
			Date:      rec.Day,
			Timestamp: rec.RecordedAt,
		})
	}

	summary, err := h.insights.AbsenteeismSummary(c.Request.Context(), teacherID, ctxRecords)
	if err != nil {
		log.Printf("absenteeism summary failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "summary generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "records": len(ctxRecords)})
}

func defaultFrom(to string) string {
	t, err := time.Parse(attendance.DayFormat, to)
	if err != nil {
		return to
	}
	return t.AddDate(0, 0, -30).Format(attendance.DayFormat)
}
