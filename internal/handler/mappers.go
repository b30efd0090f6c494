package handler

import (
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// mappers.go
// model → response DTO conversion. Handlers never hand GORM models to the
// JSON encoder directly.

func toInvoiceResponse(inv *model.Invoice, paid, balance decimal.Decimal) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = dto.InvoiceItemResponse{
			ID:          it.ID.String(),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      it.Amount,
		}
	}
	resp := dto.InvoiceResponse{
		ID:            inv.ID.String(),
		CustomerID:    inv.CustomerID.String(),
		Number:        inv.Number,
		Status:        inv.Status,
		IssuedAt:      fmtTimePtr(inv.IssuedAt),
		DueAt:         fmtTimePtr(inv.DueAt),
		SmallBusiness: inv.SmallBusiness,
		TotalNet:      inv.TotalNet,
		TotalTax:      inv.TotalTax,
		TotalGross:    inv.TotalGross,
		AmountPaid:    paid,
		Balance:       balance,
		Items:         items,
		Notes:         inv.Notes,
		CreatedAt:     fmtTime(inv.CreatedAt),
	}
	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.FirstName + " " + inv.Customer.LastName
	}
	return resp
}

func toPaymentResponse(p *model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID.String(),
		InvoiceID:     p.InvoiceID.String(),
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		PaidAt:        fmtTimePtr(p.PaidAt),
		Notes:         p.Notes,
		CreatedAt:     fmtTime(p.CreatedAt),
	}
}

func toCustomerResponse(cu *model.Customer) dto.CustomerResponse {
	dogs := make([]dto.DogResponse, len(cu.Dogs))
	for i := range cu.Dogs {
		dogs[i] = toDogResponse(&cu.Dogs[i])
	}
	resp := dto.CustomerResponse{
		ID:         cu.ID.String(),
		UserID:     cu.UserID.String(),
		FirstName:  cu.FirstName,
		LastName:   cu.LastName,
		Phone:      cu.Phone,
		Street:     cu.Street,
		PostalCode: cu.PostalCode,
		City:       cu.City,
		TrainerID:  uuidPtr(cu.TrainerID),
		Notes:      cu.Notes,
		Dogs:       dogs,
		CreatedAt:  fmtTime(cu.CreatedAt),
	}
	if cu.User != nil {
		resp.Email = cu.User.Email
	}
	return resp
}

func toDogResponse(d *model.Dog) dto.DogResponse {
	vaccinations := make([]dto.VaccinationResponse, len(d.Vaccinations))
	for i, v := range d.Vaccinations {
		vaccinations[i] = toVaccinationResponse(&v)
	}
	return dto.DogResponse{
		ID:           d.ID.String(),
		CustomerID:   d.CustomerID.String(),
		Name:         d.Name,
		Breed:        d.Breed,
		BirthDate:    fmtDatePtr(d.BirthDate),
		Sex:          d.Sex,
		Neutered:     d.Neutered,
		ChipNumber:   d.ChipNumber,
		Notes:        d.Notes,
		Vaccinations: vaccinations,
	}
}

func toVaccinationResponse(v *model.Vaccination) dto.VaccinationResponse {
	return dto.VaccinationResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		VaccinatedAt: v.VaccinatedAt.Format("2006-01-02"),
		ValidUntil:   fmtDatePtr(v.ValidUntil),
	}
}

func toCourseResponse(co *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          co.ID.String(),
		Name:        co.Name,
		Description: co.Description,
		Type:        co.Type,
		Price:       co.Price,
		TaxRate:     co.TaxRate,
		Capacity:    co.Capacity,
		TrainerID:   uuidPtr(co.TrainerID),
		Active:      co.Active,
	}
}

func toSessionResponse(s *model.TrainingSession, booked int64) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        s.ID.String(),
		CourseID:  s.CourseID.String(),
		StartsAt:  fmtTime(s.StartsAt),
		EndsAt:    fmtTime(s.EndsAt),
		Location:  s.Location,
		Cancelled: s.Cancelled,
		Booked:    booked,
	}
}

func toBookingResponse(b *model.Booking) dto.BookingResponse {
	resp := dto.BookingResponse{
		ID:         b.ID.String(),
		SessionID:  b.SessionID.String(),
		CustomerID: b.CustomerID.String(),
		DogID:      b.DogID.String(),
		Status:     b.Status,
		CreditID:   uuidPtr(b.CreditID),
		CreatedAt:  fmtTime(b.CreatedAt),
	}
	if b.Session != nil {
		resp.StartsAt = fmtTime(b.Session.StartsAt)
		if b.Session.Course != nil {
			resp.CourseName = b.Session.Course.Name
		}
	}
	return resp
}

func toTrainingLogResponse(l *model.TrainingLog) dto.TrainingLogResponse {
	resp := dto.TrainingLogResponse{
		ID:              l.ID.String(),
		DogID:           l.DogID.String(),
		SessionID:       uuidPtr(l.SessionID),
		TrainerID:       l.TrainerID.String(),
		LogDate:         l.LogDate.Format("2006-01-02"),
		Title:           l.Title,
		Notes:           l.Notes,
		Recommendations: l.Recommendations,
		Attachments:     make([]dto.TrainingAttachmentResponse, len(l.Attachments)),
		CreatedAt:       fmtTime(l.CreatedAt),
	}
	if l.Dog != nil {
		resp.DogName = l.Dog.Name
	}
	if l.Trainer != nil {
		resp.TrainerName = l.Trainer.Name
	}
	for i := range l.Attachments {
		resp.Attachments[i] = toTrainingAttachmentResponse(&l.Attachments[i])
	}
	return resp
}

func toTrainingAttachmentResponse(a *model.TrainingAttachment) dto.TrainingAttachmentResponse {
	return dto.TrainingAttachmentResponse{
		ID:            a.ID.String(),
		TrainingLogID: a.TrainingLogID.String(),
		FileType:      a.FileType,
		FileName:      a.FileName,
		UploadedAt:    fmtTime(a.UploadedAt),
	}
}

func toCreditPackageResponse(p *model.CreditPackage) dto.CreditPackageResponse {
	return dto.CreditPackageResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Units:       p.Units,
		Price:       p.Price,
		TaxRate:     p.TaxRate,
		ValidMonths: p.ValidMonths,
		Active:      p.Active,
	}
}

func toCustomerCreditResponse(cr *model.CustomerCredit) dto.CustomerCreditResponse {
	return dto.CustomerCreditResponse{
		ID:             cr.ID.String(),
		CustomerID:     cr.CustomerID.String(),
		PackageID:      cr.PackageID.String(),
		UnitsTotal:     cr.UnitsTotal,
		UnitsRemaining: cr.UnitsRemaining,
		ExpiresAt:      fmtTimePtr(cr.ExpiresAt),
		InvoiceID:      uuidPtr(cr.InvoiceID),
	}
}

func toTemplateResponse(t *model.AnamnesisTemplate) dto.TemplateResponse {
	questions := make([]dto.TemplateQuestionResponse, len(t.Questions))
	for i, q := range t.Questions {
		questions[i] = dto.TemplateQuestionResponse{
			ID:       q.ID.String(),
			Question: q.Question,
			Type:     q.Type,
			Position: q.Position,
			Required: q.Required,
			Options:  q.Options,
		}
	}
	return dto.TemplateResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Active:    t.Active,
		Questions: questions,
	}
}

func toAnamnesisResponse(r *model.AnamnesisResponse) dto.AnamnesisResponseDTO {
	answers := make([]dto.AnswerResponse, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = dto.AnswerResponse{QuestionID: a.QuestionID.String(), Answer: a.Answer}
	}
	return dto.AnamnesisResponseDTO{
		ID:          r.ID.String(),
		TemplateID:  r.TemplateID.String(),
		CustomerID:  r.CustomerID.String(),
		DogID:       r.DogID.String(),
		Status:      r.Status,
		CompletedAt: fmtTimePtr(r.CompletedAt),
		Answers:     answers,
	}
}

func toSettingResponse(s *model.Setting) dto.SettingResponse {
	return dto.SettingResponse{Key: s.Key, Value: s.Value, Type: s.Type}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Active: u.Active,
	}
}
