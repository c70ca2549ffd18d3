package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func fetchLogs(ctx context.Context, limit int64) ([]models.ModerationLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := db.ModerationLogsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.ModerationLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	// Denormalize admin identity, best-effort.
	names := map[string][2]string{}
	for i := range logs {
		adminID := logs[i].Admin
		cached, ok := names[adminID]
		if !ok {
			cached = [2]string{"Unknown", ""}
			var user models.User
			if err := db.UserCollection.FindOne(ctx, bson.M{"userid": adminID}).Decode(&user); err == nil {
				cached = [2]string{user.Username, user.Email}
			}
			names[adminID] = cached
		}
		logs[i].AdminName = cached[0]
		logs[i].AdminEmail = cached[1]
	}

	return logs, nil
}

// GetModerationLogs handles GET /api/admin/logs?limit=.
func (h *Handler) GetModerationLogs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logs, err := fetchLogs(ctx, utils.ParseLimit(r, 50, 200))
	if err != nil {
		return apperr.Internal("Failed to fetch moderation logs", err)
	}
	if len(logs) == 0 {
		logs = []models.ModerationLog{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "logs": logs})
	return nil
}

// ExportModerationLogs handles GET /api/admin/logs/export, serving the
// latest audit entries as a PDF for offline record keeping.
func (h *Handler) ExportModerationLogs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	logs, err := fetchLogs(ctx, utils.ParseLimit(r, 100, 500))
	if err != nil {
		return apperr.Internal("Failed to fetch moderation logs", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Moderation Log Export", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s - %d entries", time.Now().Format("02 Jan 2006 15:04"), len(logs)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, entry := range logs {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s - %s", entry.Timestamp.Format("2006-01-02 15:04"), entry.Action), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		line := fmt.Sprintf("Admin: %s | Target: %s %s", entry.AdminName, entry.TargetType, entry.TargetID)
		if !entry.RelatedReport.IsZero() {
			line += " | Report: " + entry.RelatedReport.Hex()
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
		if entry.Reason != "" {
			pdf.MultiCell(0, 5, "Reason: "+entry.Reason, "", "L", false)
		}
		pdf.Ln(2)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="moderation-logs.pdf"`)
	if err := pdf.Output(w); err != nil {
		return apperr.Internal("Failed to generate PDF", err)
	}
	return nil
}
