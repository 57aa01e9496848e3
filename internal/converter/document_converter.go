package converter

import (
	"healthvault/internal/delivery/dto"
	"healthvault/internal/domain/entity"
)

// DocumentToResponse converts a Document entity to its DTO. fileURL is
// the gateway retrieval URL derived from the content hash; empty when no
// gateway is configured.
func DocumentToResponse(document *entity.Document, fileURL string) *dto.DocumentResponse {
	if document == nil {
		return nil
	}

	return &dto.DocumentResponse{
		ID:         document.ID,
		Name:       document.Name,
		Type:       document.Type,
		IpfsHash:   document.IpfsHash,
		FileURL:    fileURL,
		TestDate:   document.TestDate,
		UploadDate: document.UploadDate,
		CreatedAt:  document.CreatedAt,
	}
}
