package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"qipad/config"
	"qipad/internal/auth"
	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService handles signup, login, Google OAuth and KYC. Signup seeds the
// wallet with the joining bonus and registers the referral when a code is
// presented.
type AuthService struct {
	users     *repository.UserRepository
	wallets   *WalletService
	referrals *ReferralService
	settings  *repository.SettingRepository
	cfg       *config.Config
	oauthCfg  *oauth2.Config
}

func NewAuthService(
	users *repository.UserRepository,
	wallets *WalletService,
	referrals *ReferralService,
	settings *repository.SettingRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		users:     users,
		wallets:   wallets,
		referrals: referrals,
		settings:  settings,
		cfg:       cfg,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

type RegisterParams struct {
	Username     string
	Email        string
	Password     string
	Role         string
	Phone        string
	ReferralCode string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register creates the account, seeds the wallet with the joining bonus and
// links the referral when a valid code was presented. A bad referral code
// does not fail the signup.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*models.User, *TokenPair, error) {
	if p.Role != domain.RoleEntrepreneur && p.Role != domain.RoleInvestor {
		return nil, nil, fmt.Errorf("role must be %s or %s", domain.RoleEntrepreneur, domain.RoleInvestor)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	user := &models.User{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: string(hash),
		Role:         p.Role,
		Phone:        p.Phone,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}
	s.seedWallet(ctx, user.ID)

	if p.ReferralCode != "" {
		if _, err := s.referrals.RegisterReferral(ctx, user.ID, p.ReferralCode); err != nil {
			log.Printf("[auth] referral code %q for user %d: %v", p.ReferralCode, user.ID, err)
		}
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[auth] registered user=%d role=%s", user.ID, user.Role)
	return user, tokens, nil
}

func (s *AuthService) seedWallet(ctx context.Context, userID uint) {
	bonus := s.settings.GetInt64(domain.SettingJoiningBonusQP, s.cfg.Business.JoiningBonusQP) * domain.PaisePerQP
	if bonus <= 0 {
		return
	}
	if _, err := s.wallets.Append(ctx, userID, domain.LedgerTypeEarn, bonus,
		"joining bonus", "signup", fmt.Sprint(userID)); err != nil {
		log.Printf("[auth] joining bonus for user %d: %v", userID, err)
	}
}

func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.RefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, auth.ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	user, err := s.users.GetByID(uint(userID))
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return s.issueTokens(user)
}

func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(userID, string(hash))
}

// CompleteKYC marks the user verified and feeds the referral state machine.
func (s *AuthService) CompleteKYC(ctx context.Context, userID uint) error {
	if err := s.users.MarkKYCDone(userID); err != nil {
		return err
	}
	return s.referrals.OnKycComplete(ctx, userID)
}

func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}

func (s *AuthService) UpdateFCMToken(userID uint, token string) error {
	return s.users.UpdateFCMToken(userID, token)
}

// GoogleAuthURL starts the OAuth flow.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleLogin exchanges the OAuth code, then finds or creates the account.
// An existing email account gets its Google identity linked. New Google
// signups default to the investor role.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*models.User, *TokenPair, error) {
	token, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("oauth exchange: %w", err)
	}
	client := s.oauthCfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, nil, fmt.Errorf("google userinfo decode: %w", err)
	}
	if info.Email == "" {
		return nil, nil, fmt.Errorf("google account has no email")
	}

	user, err := s.users.GetByGoogleID(info.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.GetByEmail(info.Email)
		if err == nil {
			user.GoogleID = &info.ID
			if user.AvatarURL == "" {
				user.AvatarURL = info.Picture
			}
			if err := s.users.Update(user); err != nil {
				return nil, nil, err
			}
		} else {
			user = &models.User{
				Username:  info.Name,
				Email:     info.Email,
				Role:      domain.RoleInvestor,
				GoogleID:  &info.ID,
				AvatarURL: info.Picture,
			}
			if err := s.users.Create(user); err != nil {
				return nil, nil, err
			}
			s.seedWallet(ctx, user.ID)
		}
	} else if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}
