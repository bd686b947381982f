package domain

import "errors"

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrDuplicateName       = errors.New("duplicate_name")
	ErrMembershipCap       = errors.New("membership_cap_reached")
	ErrNotMember           = errors.New("not_member")
	ErrNotOwner            = errors.New("not_owner")
	ErrNotAdmin            = errors.New("not_admin")
	ErrAlreadyMember       = errors.New("already_member")
	ErrMemberNotFound      = errors.New("member_not_found")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrSelfRemoval         = errors.New("self_removal")
	ErrBadConfirmation     = errors.New("bad_confirmation")
	ErrTransferToSelf      = errors.New("transfer_to_self")
	ErrOrgNotFound         = errors.New("organization_not_found")
)
