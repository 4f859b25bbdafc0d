package uploads

import (
	"net/http"

	"digishop/filemgr"
	"digishop/utils"

	"github.com/julienschmidt/httprouter"
)

// POST /api/upload
// Accepts a single multipart file field "image" and returns the durable
// URL the stored copy is served from.
func UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "No file uploaded or invalid file field")
		return
	}

	filename, err := filemgr.SaveImageForEntity(file, header, filemgr.EntityProduct)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Could not save file: "+err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"fileUrl": "/static/uploads/product/photo/" + filename,
	})
}
