package server

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetledger/assetledger/internal/usecase"
)

type DigitalAsset struct {
	AssetID        string                `json:"asset_id"`
	AssetName      string                `json:"asset_name"`
	AssetHash      string                `json:"asset_hash"`
	AssetOwner     string                `json:"asset_owner"`
	ApprovedUsers  []string              `json:"approved_users,omitempty"`
	PendingMods    []PendingModification `json:"pending_modifications,omitempty"`
	LastModifiedBy string                `json:"last_modified_by,omitempty"`
}

type PendingModification struct {
	ModID          string `json:"mod_id"`
	ModFileName    string `json:"mod_file_name"`
	ModFileHash    string `json:"mod_file_hash"`
	LastModifiedBy string `json:"last_modified_by"`
}

func ConvertAssetFrom(a usecase.DigitalAsset) DigitalAsset {
	asset := DigitalAsset{
		AssetID:        a.AssetID,
		AssetName:      a.AssetName,
		AssetHash:      a.AssetHash,
		AssetOwner:     a.AssetOwner,
		ApprovedUsers:  a.ApprovedUsers,
		LastModifiedBy: a.LastModifiedBy,
	}
	for _, m := range a.ModificationsPendingApproval {
		asset.PendingMods = append(asset.PendingMods, PendingModification{
			ModID:          m.ModID,
			ModFileName:    m.ModFileName,
			ModFileHash:    m.ModFileHash,
			LastModifiedBy: m.LastModifiedBy,
		})
	}
	return asset
}

func convertAssetsFrom(assets []usecase.DigitalAsset) []DigitalAsset {
	list := make([]DigitalAsset, 0, len(assets))
	for _, a := range assets {
		list = append(list, ConvertAssetFrom(a))
	}
	return list
}

type ListAssetsRequest struct {
	Owner string `query:"owner" validate:"omitempty,email"`
}

func (s *Server) ListDigitalAssets(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	var req ListAssetsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	var (
		assets []usecase.DigitalAsset
		err    error
	)
	if req.Owner != "" {
		assets, err = s.server.QueryDigitalAssetsByUser(ctx.Request().Context(), caller, req.Owner)
	} else {
		assets, err = s.server.QueryAllDigitalAssets(ctx.Request().Context(), caller)
	}
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}

	list := convertAssetsFrom(assets)
	return ctx.JSON(200, Res{Data: list, Meta: &Meta{Total: len(list)}})
}

func (s *Server) ReadDigitalAsset(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	asset, err := s.server.ReadDigitalAsset(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	return ctx.JSON(200, Res{Data: ConvertAssetFrom(asset)})
}

func (s *Server) CreateDigitalAsset(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}

	name, fileType, data, err := readUploadedFile(ctx)
	if err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	asset, err := s.server.CreateDigitalAsset(ctx.Request().Context(), name, fileType, data, caller)
	if err != nil {
		res := Res{Error: err.Error()}
		if conflict := usecase.ConflictOf(err); conflict != nil {
			res.Data = ConvertAssetFrom(*conflict)
		}
		return ctx.JSON(statusOf(err), res)
	}
	return ctx.JSON(201, Res{Data: ConvertAssetFrom(asset)})
}

func (s *Server) UpdateDigitalAsset(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}

	_, fileType, data, err := readUploadedFile(ctx)
	if err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	outcome, err := s.server.UpdateDigitalAsset(ctx.Request().Context(), ctx.Param("id"), fileType, data, caller)
	if err != nil {
		res := Res{Error: err.Error()}
		if conflict := usecase.ConflictOf(err); conflict != nil {
			res.Data = ConvertAssetFrom(*conflict)
		}
		return ctx.JSON(statusOf(err), res)
	}

	res := Res{Data: ConvertAssetFrom(outcome.Asset)}
	if outcome.Pending {
		res.Message = "modification is pending owner approval"
		return ctx.JSON(202, res)
	}
	return ctx.JSON(200, res)
}

type ChangeOwnershipRequest struct {
	NewOwner string `json:"new_owner" validate:"required,email"`
}

func (s *Server) ChangeOwnership(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	var req ChangeOwnershipRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	asset, err := s.server.ChangeOwnershipOfAsset(ctx.Request().Context(), ctx.Param("id"), caller, req.NewOwner)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	return ctx.JSON(200, Res{Data: ConvertAssetFrom(asset)})
}

func (s *Server) DeleteDigitalAsset(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	if err := s.server.DeleteDigitalAsset(ctx.Request().Context(), ctx.Param("id"), caller); err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	return ctx.NoContent(204)
}

func (s *Server) GetAssetHistory(ctx echo.Context) error {
	history, err := s.server.GetHistoryForDigitalAsset(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	return ctx.JSON(200, Res{Data: history})
}

func (s *Server) DownloadDigitalAsset(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	assetID := ctx.Param("id")

	asset, err := s.server.ReadDigitalAsset(ctx.Request().Context(), caller, assetID)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	data, err := s.server.DownloadDigitalAssetFile(ctx.Request().Context(), assetID)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}

	ctx.Response().Header().Set("Content-Disposition", `attachment; filename="`+asset.AssetName+`"`)
	return ctx.Blob(200, "application/octet-stream", data)
}

func (s *Server) ListModificationRequests(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	assets, err := s.server.ViewAssetModificationRequests(ctx.Request().Context(), caller)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	list := convertAssetsFrom(assets)
	return ctx.JSON(200, Res{Data: list, Meta: &Meta{Total: len(list)}})
}

type ProcessModificationRequestBody struct {
	Approve         bool `json:"approve"`
	AddApprovedUser bool `json:"add_approved_user"`
}

func (s *Server) ProcessModificationRequest(ctx echo.Context) error {
	caller, ok := callerEmail(ctx)
	if !ok {
		return ctx.JSON(401, Res{Error: "caller identity is required"})
	}
	var req ProcessModificationRequestBody
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}

	asset, err := s.server.ProcessAssetModRequest(ctx.Request().Context(),
		ctx.Param("id"), ctx.Param("modId"), caller, req.Approve, req.AddApprovedUser)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	return ctx.JSON(200, Res{Data: ConvertAssetFrom(asset)})
}

// readUploadedFile pulls the multipart "file" part plus its declared
// content type.
func readUploadedFile(ctx echo.Context) (name, fileType string, data []byte, err error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return "", "", nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer src.Close()

	data, err = io.ReadAll(src)
	if err != nil {
		return "", "", nil, err
	}

	name = ctx.FormValue("name")
	if name == "" {
		name = fh.Filename
	}
	fileType = fh.Header.Get("Content-Type")
	if fileType == "" {
		fileType = http.DetectContentType(data)
	}
	return name, fileType, data, nil
}
