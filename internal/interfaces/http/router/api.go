package router

import (
	"github.com/Apolones/estore/internal/domain/store"
	"github.com/Apolones/estore/internal/interfaces/http/handler"
	"github.com/Apolones/estore/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed for multipart headers and form fields
const multipartOverhead = 1 << 20

// Handlers holds the API handlers mounted under the base path
type Handlers struct {
	Import   *handler.ImportHandler
	History  *handler.ImportHistoryHandler
	Purchase *handler.PurchaseHandler
	System   *handler.SystemHandler
}

// BodyLimits caps request bodies; zero disables a limit
type BodyLimits struct {
	// JSON applies to the purchase body
	JSON int64
	// Upload is the largest accepted file; routes allow it plus multipart overhead
	Upload int64
}

func bodyLimit(limit int64) []gin.HandlerFunc {
	if limit <= 0 {
		return nil
	}
	return []gin.HandlerFunc{middleware.BodyLimit(limit)}
}

// RegisterAPI registers the estore API groups on r.
//
// Each entity kind gets its own CSV upload route, /<kind>/csv, so the
// kind is fixed by the route rather than parsed from the path.
func RegisterAPI(r *Router, h Handlers, limits BodyLimits) *Router {
	var uploadLimit int64
	if limits.Upload > 0 {
		uploadLimit = limits.Upload + multipartOverhead
	}

	upload := NewDomainGroup("upload", "/upload").Use(bodyLimit(uploadLimit)...)
	upload.POST("/zip", h.Import.UploadArchive)
	r.Register(upload)

	for _, kind := range store.AllKinds() {
		csv := NewDomainGroup(kind.Slug(), "/"+kind.Slug()).Use(bodyLimit(uploadLimit)...)
		csv.POST("/csv", h.Import.UploadCSV(kind))
		r.Register(csv)
	}

	imports := NewDomainGroup("imports", "/imports")
	imports.GET("", h.History.ListHistory).
		GET("/:id", h.History.GetHistory)

	purchase := NewDomainGroup("purchase", "/purchase").Use(bodyLimit(limits.JSON)...)
	purchase.POST("", h.Purchase.CreatePurchase).
		GET("/:id", h.Purchase.GetPurchase)

	stock := NewDomainGroup("electroshop", "/electroshop")
	stock.GET("", h.Purchase.GetStock).
		GET("/availability", h.Purchase.GetAvailability)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return r.Register(imports).
		Register(purchase).
		Register(stock).
		Register(system)
}
