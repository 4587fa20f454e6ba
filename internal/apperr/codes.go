package apperr

// Validation errors.
var (
	ErrInvalidRequest       = newError(KindValidation, "invalid_request", "Invalid request body")
	ErrNameRequired         = newError(KindValidation, "name_required", "Event name is required")
	ErrInvalidDates         = newError(KindValidation, "invalid_dates", "Event start date must not be after its end date")
	ErrDeadlineAfterEnd     = newError(KindValidation, "deadline_after_end", "Registration deadline must not be after the event end date")
	ErrInvalidLimit         = newError(KindValidation, "invalid_limit", "Registration limit must be at least 1")
	ErrLimitBelowCount      = newError(KindValidation, "limit_below_count", "Registration limit cannot be below the current number of registrations")
	ErrInvalidFee           = newError(KindValidation, "invalid_fee", "Registration fee cannot be negative")
	ErrInvalidTag           = newError(KindValidation, "invalid_tag", "Unknown event tag")
	ErrInvalidEventType     = newError(KindValidation, "invalid_event_type", "Event type must be Normal or Merchandise")
	ErrInvalidEligibility   = newError(KindValidation, "invalid_eligibility", "Eligibility must be IIITOnly or All")
	ErrInvalidStatus        = newError(KindValidation, "invalid_status", "Unknown event status")
	ErrItemDetailsRequired  = newError(KindValidation, "item_details_required", "Merchandise events require item details")
	ErrPayloadMismatch      = newError(KindValidation, "payload_mismatch", "Payload does not match the event type")
	ErrInvalidStock         = newError(KindValidation, "invalid_stock", "Stock cannot be negative")
	ErrInvalidPurchaseLimit = newError(KindValidation, "invalid_purchase_limit", "Purchase limit must be at least 1")
	ErrInvalidFormField     = newError(KindValidation, "invalid_form_field", "Invalid custom form field")
	ErrMissingFormResponse  = newError(KindValidation, "missing_form_response", "A required form field was not answered")
	ErrInvalidQuantity      = newError(KindValidation, "invalid_quantity", "Quantity must be at least 1")
	ErrInvalidOption        = newError(KindValidation, "invalid_option", "Selected option is not offered for this item")
	ErrTicketRequired       = newError(KindValidation, "ticket_required", "Ticket ID is required")
	ErrContentRequired      = newError(KindValidation, "content_required", "Message content is required")
	ErrContentTooLong       = newError(KindValidation, "content_too_long", "Message content is too long")
	ErrInvalidEmoji         = newError(KindValidation, "invalid_emoji", "Unsupported reaction")
	ErrInvalidRating        = newError(KindValidation, "invalid_rating", "Rating must be between 1 and 5")
	ErrCommentTooLong       = newError(KindValidation, "comment_too_long", "Feedback comment is too long")
)

// Business-rule rejections.
var (
	ErrEventNotOpen          = newError(KindBusiness, "event_not_open", "Event is not open for registration")
	ErrDeadlinePassed        = newError(KindBusiness, "deadline_passed", "Registration deadline has passed")
	ErrLimitReached          = newError(KindBusiness, "limit_reached", "Registration limit reached")
	ErrAlreadyRegistered     = newError(KindBusiness, "already_registered", "Already registered for this event")
	ErrInsufficientStock     = newError(KindBusiness, "insufficient_stock", "Insufficient stock")
	ErrPurchaseLimitExceeded = newError(KindBusiness, "purchase_limit_exceeded", "Purchase limit exceeded")
	ErrAlreadyCancelled      = newError(KindBusiness, "already_cancelled", "Registration is already cancelled")
	ErrNotCancellable        = newError(KindBusiness, "not_cancellable", "Registration can no longer be cancelled")
	ErrAlreadyCheckedIn      = newError(KindBusiness, "already_checked_in", "Already checked in")
	ErrRegistrationInactive  = newError(KindBusiness, "registration_inactive", "Registration is not active")
	ErrFieldNotEditable      = newError(KindBusiness, "field_not_editable", "Field cannot be edited in the current event status")
	ErrDeadlineMovedEarlier  = newError(KindBusiness, "deadline_moved_earlier", "Registration deadline can only be extended")
	ErrLimitDecreased        = newError(KindBusiness, "limit_decreased", "Registration limit can only be increased")
	ErrInvalidTransition     = newError(KindBusiness, "invalid_transition", "Event status transition is not allowed")
	ErrEventCancelled        = newError(KindBusiness, "event_cancelled", "Cancelled events cannot be edited")
	ErrDeleteNotDraft        = newError(KindBusiness, "delete_not_draft", "Only draft events can be deleted")
	ErrFormLocked            = newError(KindBusiness, "form_locked", "Registration form is locked")
	ErrNotNormalEvent        = newError(KindBusiness, "not_normal_event", "Only normal events have a registration form")
	ErrFormNotEditable       = newError(KindBusiness, "form_not_editable", "Registration form cannot be edited in the current event status")
	ErrMessageDeleted        = newError(KindBusiness, "message_deleted", "Message has been deleted")
	ErrFeedbackExists        = newError(KindBusiness, "feedback_exists", "Feedback already submitted")
)

// Authorization errors.
var (
	ErrUnauthenticated = newError(KindUnauthenticated, "unauthenticated", "Authentication required")
	ErrIneligible      = newError(KindForbidden, "ineligible", "This event is open to IIIT participants only")
	ErrForbidden       = newError(KindForbidden, "forbidden", "You are not allowed to perform this action")
	ErrNotOwner        = newError(KindForbidden, "not_owner", "Only the event organizer can perform this action")
	ErrNotAttendee     = newError(KindForbidden, "not_attendee", "Only attendees can leave feedback")
)

// Not-found errors.
var (
	ErrEventNotFound        = newError(KindNotFound, "event_not_found", "Event not found")
	ErrRegistrationNotFound = newError(KindNotFound, "registration_not_found", "Registration not found")
	ErrTicketNotFound       = newError(KindNotFound, "ticket_not_found", "Ticket not found")
	ErrMessageNotFound      = newError(KindNotFound, "message_not_found", "Message not found")
	ErrParentNotFound       = newError(KindNotFound, "parent_not_found", "Parent message not found")
)
