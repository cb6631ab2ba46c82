package handlers

// User-facing messages. The product ships them in Arabic with the English
// text in parentheses.
const (
	msgBadRequest           = "طلب غير صالح (Bad request)"
	msgCredentialsRequired  = "البريد الإلكتروني وكلمة المرور مطلوبان (Email and password required)"
	msgInvalidEmail         = "صيغة البريد الإلكتروني غير صحيحة (Invalid email format)"
	msgPasswordTooShort     = "كلمة المرور يجب أن تكون 6 أحرف على الأقل (Password must be at least 6 characters)"
	msgPasswordTooLong      = "كلمة المرور طويلة جدًا (Password is too long)"
	msgEmailTaken           = "البريد الإلكتروني مستخدم بالفعل (Email already exists)"
	msgBadCredentials       = "البريد الإلكتروني أو كلمة المرور غير صحيحة (Invalid email or password)"
	msgHashFailed           = "خطأ داخلي في الخادم (Internal server error during hashing)"
	msgTokenFailed          = "خطأ في إنشاء التوكن (Error generating token)"
	msgSignupFailed         = "خطأ في الخادم أثناء تسجيل الحساب (Server error during signup)"
	msgSigninFailed         = "خطأ في الخادم أثناء تسجيل الدخول (Server error during signin)"
	msgUserNotFound         = "المستخدم غير موجود (User not found)"
	msgUserFetchFailed      = "خطأ في الخادم، حاول لاحقًا (Server error fetching user data)"
	msgTaskFieldsMissing    = "بعض الحقول المطلوبة مفقودة (Missing required task fields)"
	msgTaskFieldsInvalid    = "بعض حقول المهمة غير صالحة (Invalid task fields)"
	msgInvalidPoints        = "قيمة النقاط غير صالحة (Invalid points value)"
	msgTaskIDTaken          = "معرف المهمة مستخدم بالفعل (Task ID already exists)"
	msgTaskAdded            = "تم إضافة المهمة بنجاح (Task added successfully)"
	msgTaskAddFailed        = "خطأ في الخادم أثناء إضافة المهمة (Server error adding task)"
	msgTasksFetchFailed     = "خطأ في الخادم أثناء جلب المهام (Server error fetching tasks)"
	msgTaskNotFound         = "المهمة غير موجودة أو لا تملك الصلاحية (Task not found or unauthorized)"
	msgTaskAlreadyCompleted = "المهمة مكتملة بالفعل (Task already completed)"
	msgTaskCompleted        = "تم إتمام المهمة بنجاح (Task completed successfully)"
	msgTaskCompleteFailed   = "خطأ في الخادم أثناء إتمام المهمة (Server error completing task)"
	msgTaskDeleted          = "تم حذف المهمة بنجاح (Task deleted successfully)"
	msgTaskDeleteFailed     = "خطأ في الخادم أثناء حذف المهمة (Server error deleting task)"
	msgStatsFetchFailed     = "خطأ في الخادم أثناء جلب الإحصائيات (Server error fetching stats)"
	msgServerRunning        = "Server is running"
	msgDBHealthy            = "Database connection successful."
	msgDBUnhealthy          = "Failed to connect to database."
)
